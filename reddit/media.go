package reddit

import (
	"html"
	"strings"
)

// VideoURL returns the direct MP4 URL for a Reddit-hosted video, checking the
// media, preview and secure_media payloads in that order. The DASH query
// parameters are stripped so the result can be downloaded directly. Returns
// an empty string when the submission carries no Reddit video.
func (p *Post) VideoURL() string {
	if p.Media != nil && p.Media.RedditVideo != nil && p.Media.RedditVideo.FallbackURL != "" {
		return stripQuery(p.Media.RedditVideo.FallbackURL)
	}
	if p.Preview != nil && p.Preview.RedditVideoPreview != nil && p.Preview.RedditVideoPreview.FallbackURL != "" {
		return stripQuery(p.Preview.RedditVideoPreview.FallbackURL)
	}
	if p.SecureMedia != nil && p.SecureMedia.RedditVideo != nil && p.SecureMedia.RedditVideo.FallbackURL != "" {
		return stripQuery(p.SecureMedia.RedditVideo.FallbackURL)
	}
	return ""
}

// GalleryImageURLs resolves the gallery entries to direct image URLs in the
// order the author arranged them. Entries whose metadata is missing or not
// yet processed by Reddit are skipped, so the result may be shorter than the
// gallery, or empty.
func (p *Post) GalleryImageURLs() []string {
	if p.GalleryData == nil || len(p.MediaMetadata) == 0 {
		return nil
	}

	urls := make([]string, 0, len(p.GalleryData.Items))
	for _, item := range p.GalleryData.Items {
		meta, ok := p.MediaMetadata[item.MediaID]
		if !ok || meta == nil || meta.Status != "valid" {
			continue
		}

		if meta.Source != nil {
			if meta.Source.URL != "" {
				urls = append(urls, html.UnescapeString(meta.Source.URL))
				continue
			}
			if meta.Source.GIF != "" {
				urls = append(urls, html.UnescapeString(meta.Source.GIF))
				continue
			}
		}

		// Older payloads ship only the mime type; i.redd.it serves the
		// upload under the media id.
		if strings.HasPrefix(meta.MimeType, "image/") {
			ext := strings.TrimPrefix(meta.MimeType, "image/")
			urls = append(urls, "https://i.redd.it/"+item.MediaID+"."+ext)
		}
	}
	return urls
}

// PreviewImageURL returns the full-size preview image URL, or an empty string
// when the submission has no preview.
func (p *Post) PreviewImageURL() string {
	if p.Preview == nil || len(p.Preview.Images) == 0 {
		return ""
	}
	return html.UnescapeString(p.Preview.Images[0].Source.URL)
}

// CrosspostParent returns the original submission of a crosspost, or nil when
// this submission is not a crosspost.
func (p *Post) CrosspostParent() *Post {
	if len(p.CrosspostParentList) == 0 {
		return nil
	}
	return &p.CrosspostParentList[0]
}

// PermalinkURL returns the absolute reddit.com URL for the submission.
func (p *Post) PermalinkURL() string {
	return "https://www.reddit.com" + p.Permalink
}

func stripQuery(rawURL string) string {
	if i := strings.Index(rawURL, "?"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
