package publisher

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

const (
	colorGreen = 0x2ecc71

	titleLimit       = 256
	descriptionLimit = 4000
	threadNameLimit  = 100

	fallbackImageURL = "https://www.redditstatic.com/desktop2x/img/favicon/android-icon-512x512.png"
)

// baseEmbed builds the skeleton shared by every post type: linked truncated
// title, green accent, author line.
func baseEmbed(post *reddit.Post) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: utils.Truncate(post.Title, titleLimit),
		URL:   post.PermalinkURL(),
		Color: colorGreen,
	}

	author := &discordgo.MessageEmbedAuthor{Name: "u/[deleted]"}
	if post.Author != "" && post.Author != "[deleted]" {
		author.Name = "u/" + post.Author
		author.URL = "https://www.reddit.com/user/" + post.Author
	}
	embed.Author = author

	return embed
}

// finishEmbed applies the footer, timestamp and crosspost attribution every
// outgoing embed carries.
func finishEmbed(embed *discordgo.MessageEmbed, post *reddit.Post, crosspostFrom string) {
	if crosspostFrom != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Crosspost",
			Value: fmt.Sprintf("[r/%s](https://www.reddit.com/r/%s)", crosspostFrom, crosspostFrom),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: footerText(post, "")}
	embed.Timestamp = createdTimestamp(post)
}

func footerText(post *reddit.Post, suffix string) string {
	text := "r/" + post.Subreddit
	if suffix != "" {
		text += " | " + suffix
	}
	if post.Over18 {
		text += " | NSFW"
	}
	return text
}

func createdTimestamp(post *reddit.Post) string {
	return time.Unix(int64(post.CreatedUTC), 0).UTC().Format(time.RFC3339)
}

// simpleEmbed builds the image-preview card used to open a forum thread when
// the submission has no directly linkable image.
func (p *Publisher) simpleEmbed(post *reddit.Post) *discordgo.MessageEmbed {
	processing := post
	if parent := post.CrosspostParent(); parent != nil {
		merged := *parent
		merged.Title = post.Title
		merged.Subreddit = post.Subreddit
		processing = &merged
	}

	embed := &discordgo.MessageEmbed{
		Color: colorGreen,
		Image: &discordgo.MessageEmbedImage{URL: p.previewImage(processing)},
	}

	if processing.PollData != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Poll Options",
			Value: pollOptionLines(processing.PollData),
		})
		embed.Fields = append(embed.Fields, pollTimingField(processing.PollData, time.Now()))
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footerText(processing, "Poll")}
	}

	return embed
}

// previewImage picks the representative image in the same priority order the
// full embeds use: YouTube thumbnail, RedGifs preview, video preview, gallery
// lead, direct image, media metadata, then the reddit icon.
func (p *Publisher) previewImage(post *reddit.Post) string {
	if videoID := utils.ExtractVideoID(post.URL); videoID != "" {
		return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
	}

	if strings.Contains(post.URL, "redgifs.com") {
		if u := post.PreviewImageURL(); u != "" {
			return u
		}
	}

	if post.IsVideo {
		if u := post.PreviewImageURL(); u != "" {
			return u
		}
		if post.Thumbnail != "" && post.Thumbnail != "default" {
			return post.Thumbnail
		}
	}

	if post.IsGallery {
		if urls := post.GalleryImageURLs(); len(urls) > 0 {
			return urls[0]
		}
	}

	if hasImageExtension(post.URL) && p.isImageURL(post.URL) {
		return post.URL
	}

	if u := post.PreviewImageURL(); u != "" {
		u = strings.ReplaceAll(u, "preview.redd.it", "i.redd.it")
		if p.isImageURL(u) {
			return u
		}
	}

	for _, id := range sortedMetadataIDs(post) {
		meta := post.MediaMetadata[id]
		if meta == nil || meta.Source == nil {
			continue
		}
		if meta.Type == "AnimatedImage" && meta.Source.GIF != "" {
			return html.UnescapeString(meta.Source.GIF)
		}
		if meta.Source.URL != "" {
			return html.UnescapeString(meta.Source.URL)
		}
	}

	return fallbackImageURL
}

func sortedMetadataIDs(post *reddit.Post) []string {
	if len(post.MediaMetadata) == 0 {
		return nil
	}
	ids := make([]string, 0, len(post.MediaMetadata))
	for id := range post.MediaMetadata {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func hasImageExtension(rawURL string) bool {
	lowered := strings.ToLower(stripQuery(rawURL))
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}
