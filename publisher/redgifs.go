package publisher

import (
	"bytes"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
)

// publishRedGifs resolves the mp4 behind a RedGifs link and re-uploads it
// when it fits under the ceiling. Posts without a resolvable or small enough
// clip link out instead.
func (p *Publisher) publishRedGifs(post *reddit.Post, channelID string, embed *discordgo.MessageEmbed, visibility map[string]bool, crosspostFrom string) error {
	redditButton := button("Reddit Post", post.PermalinkURL(), visibility)
	redgifsButton := button("RedGIFs", post.URL, visibility)

	videoURL := ""
	if post.Preview != nil && post.Preview.RedditVideoPreview != nil {
		videoURL = stripQuery(post.Preview.RedditVideoPreview.FallbackURL)
	}
	if videoURL == "" {
		videoURL = p.scrapeRedGifsVideo(post.URL)
	}

	if videoURL != "" {
		if data, err := p.download(videoURL); err == nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "RedGIFs Video", Value: post.URL})
			finishEmbed(embed, post, crosspostFrom)
			if err := p.send(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
				return err
			}
			return p.send(channelID, &discordgo.MessageSend{
				Files: []*discordgo.File{{
					Name:        "redgifs_video.mp4",
					ContentType: "video/mp4",
					Reader:      bytes.NewReader(data),
				}},
				Components: buttonRow(redditButton, redgifsButton),
			})
		}
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "RedGIFs Link", Value: post.URL})
	finishEmbed(embed, post, crosspostFrom)
	return p.send(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: buttonRow(redditButton, redgifsButton),
	})
}

// scrapeRedGifsVideo pulls the downloadable mp4 URL out of the RedGifs page
// markup, for listings that carried no video preview.
func (p *Publisher) scrapeRedGifsVideo(pageURL string) string {
	resp, err := p.httpClient.Get(pageURL)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	content, ok := doc.Find(`meta[property="og:video"]`).Attr("content")
	if !ok {
		return ""
	}
	return stripQuery(content)
}
