package utils

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var (
	redditImageURLRE = regexp.MustCompile(`https?://(?:preview|i)\.redd\.it/\S+`)
	markdownLinkRE   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	squareBracketRE  = regexp.MustCompile(`[\[\]]`)
	trailingParenRE  = regexp.MustCompile(`(?m)\($`)
	multiSpaceRE     = regexp.MustCompile(` +`)
	blankLineRE      = regexp.MustCompile(`\n\s*\n`)
)

// Truncate shortens s to at most max characters, ending in "..." when
// anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// EnsureValidURL turns protocol-relative and site-relative reddit URLs into
// absolute ones.
func EnsureValidURL(rawURL string) string {
	switch {
	case strings.HasPrefix(rawURL, "//"):
		return "https:" + rawURL
	case strings.HasPrefix(rawURL, "/"):
		return "https://www.reddit.com" + rawURL
	case !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://"):
		return "https://" + rawURL
	}
	return rawURL
}

// CleanSelftext strips reddit image URLs and markdown noise from a post body
// so it reads well inside an embed description.
func CleanSelftext(selftext string) string {
	cleaned := redditImageURLRE.ReplaceAllString(selftext, "")

	// Markdown links keep both label and target unless they are the same.
	cleaned = markdownLinkRE.ReplaceAllStringFunc(cleaned, func(m string) string {
		parts := markdownLinkRE.FindStringSubmatch(m)
		if strings.TrimSpace(parts[1]) == strings.TrimSpace(parts[2]) {
			return parts[2]
		}
		return parts[1] + " " + parts[2]
	})

	cleaned = squareBracketRE.ReplaceAllString(cleaned, "")
	cleaned = trailingParenRE.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = multiSpaceRE.ReplaceAllString(cleaned, " ")
	cleaned = blankLineRE.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}

// ExtractVideoID pulls the video ID out of a YouTube watch or share URL.
// It returns an empty string for anything else.
func ExtractVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	switch parsed.Host {
	case "youtu.be", "www.youtu.be":
		return strings.TrimPrefix(parsed.Path, "/")
	case "youtube.com", "www.youtube.com":
		return parsed.Query().Get("v")
	}
	return ""
}
