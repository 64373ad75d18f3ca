package publisher

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// youtubeOembedURL resolves video titles without an API key.
const youtubeOembedURL = "https://www.youtube.com/oembed"

// youtubeInfo returns the video's title and thumbnail. The thumbnail is the
// predictable maxresdefault image; the title comes from the oEmbed endpoint
// and falls back to a generic label when the lookup fails.
func (p *Publisher) youtubeInfo(videoID string) (title, thumbnailURL string) {
	title = "YouTube Video"
	thumbnailURL = "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"

	query := url.Values{}
	query.Set("url", "https://www.youtube.com/watch?v="+videoID)
	query.Set("format", "json")

	resp, err := p.httpClient.Get(p.oembedURL + "?" + query.Encode())
	if err != nil {
		return title, thumbnailURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return title, thumbnailURL
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Title == "" {
		return title, thumbnailURL
	}
	return payload.Title, thumbnailURL
}
