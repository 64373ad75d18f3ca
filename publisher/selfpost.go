package publisher

import (
	"fmt"
	"net/url"

	"github.com/bwmarrin/discordgo"
	"mvdan.cc/xurls/v2"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
)

var urlRE = xurls.Strict()

// publishSelfPost sends a text post. Reddit-hosted images linked in the body
// are re-uploaded below the embed.
func (p *Publisher) publishSelfPost(post *reddit.Post, channelID string, embed *discordgo.MessageEmbed, visibility map[string]bool, crosspostFrom string) error {
	redditButton := button("Reddit Post", post.PermalinkURL(), visibility)

	imageURLs := extractImageURLs(post.SelfText)
	if len(imageURLs) == 0 {
		finishEmbed(embed, post, crosspostFrom)
		return p.send(channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: buttonRow(redditButton),
		})
	}

	plural := ""
	if len(imageURLs) != 1 {
		plural = "s"
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Reddit Image(s)",
		Value: fmt.Sprintf("This post contains %d image%s.", len(imageURLs), plural),
	})
	finishEmbed(embed, post, crosspostFrom)

	if err := p.send(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		return err
	}
	return p.sendImages(channelID, imageURLs, redditButton)
}

// extractImageURLs pulls reddit-hosted image links out of a post body,
// normalized to their query-free form.
func extractImageURLs(selftext string) []string {
	var imageURLs []string
	for _, match := range urlRE.FindAllString(selftext, -1) {
		parsed, err := url.Parse(match)
		if err != nil {
			continue
		}
		if parsed.Host != "i.redd.it" && parsed.Host != "preview.redd.it" {
			continue
		}
		cleaned := "https://" + parsed.Host + parsed.Path
		if hasImageExtension(cleaned) {
			imageURLs = append(imageURLs, cleaned)
		}
	}
	return imageURLs
}
