package publisher

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
)

// publishGallery sends a gallery post: the lead embed with a count and link,
// then every image as oversized-GIF embeds or attachment batches. Reports
// whether the submission was handled; a gallery with no resolvable items
// falls through to the link branch.
func (p *Publisher) publishGallery(post *reddit.Post, channelID string, embed *discordgo.MessageEmbed, visibility map[string]bool, crosspostFrom string) (bool, error) {
	imageURLs := post.GalleryImageURLs()
	if len(imageURLs) == 0 {
		return false, nil
	}

	count := len(post.GalleryData.Items)
	plural := "s"
	if count == 1 {
		plural = ""
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   "Image Gallery",
			Value:  fmt.Sprintf("This Reddit Post contains %d image%s", count, plural),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:  "Gallery Link",
			Value: post.URL,
		},
	)

	finishEmbed(embed, post, crosspostFrom)
	if err := p.send(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		return true, err
	}

	err := p.sendImages(channelID, imageURLs,
		button("Reddit Post", post.PermalinkURL(), visibility),
		button("Image Gallery", post.URL, visibility))
	return true, err
}
