package publisher

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// uploadLimitNote tells readers why a video arrives as a link instead of a
// playable attachment.
const uploadLimitNote = "Due to Discord upload limits, you'll need to view this video on Reddit or via the Reddit App using the link provided."

var playerLinkRE = regexp.MustCompile(`https://reddit\.com/link/[^/]+/video/[^/]+/player`)

// publishSelftextVideo handles posts whose body embeds reddit video players.
// Those clips cannot be fetched directly, so the message links out. Reports
// whether the submission was handled.
func (p *Publisher) publishSelftextVideo(post *reddit.Post, channelID string, visibility map[string]bool) (bool, error) {
	hasVideoMeta := false
	for _, meta := range post.MediaMetadata {
		if meta != nil && meta.Type == "RedditVideo" {
			hasVideoMeta = true
			break
		}
	}
	if !hasVideoMeta {
		return false, nil
	}

	links := playerLinkRE.FindAllString(post.SelfText, -1)
	if len(links) == 0 {
		return false, nil
	}

	embed := baseEmbed(post)
	if desc := cleanVideoPostText(post.SelfText, links); desc != "" {
		embed.Description = utils.Truncate(desc, descriptionLimit)
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:  "Reddit Video",
			Value: "This type of Reddit video(s) can only be viewed online or via the Reddit App.",
		},
		&discordgo.MessageEmbedField{
			Name:  "Video Link(s)",
			Value: strings.Join(links, "\n"),
		},
	)
	finishEmbed(embed, post, "")

	err := p.send(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: buttonRow(
			button("Reddit Post", post.PermalinkURL(), visibility),
			button("Watch Video", links[0], visibility)),
	})
	return true, err
}

// publishRedditVideo re-uploads a reddit-hosted video when it fits under the
// ceiling; otherwise the embed carries a thumbnail, the link and the
// upload-limits note.
func (p *Publisher) publishRedditVideo(post *reddit.Post, channelID string, embed *discordgo.MessageEmbed, videoURL string, visibility map[string]bool, crosspostFrom string) error {
	redditButton := button("Reddit Post", post.PermalinkURL(), visibility)
	watchButton := button("Watch Video", videoURL, visibility)

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Reddit Video", Value: videoURL})

	if data, err := p.download(videoURL); err == nil {
		finishEmbed(embed, post, crosspostFrom)
		if err := p.send(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
			return err
		}
		return p.send(channelID, &discordgo.MessageSend{
			Files: []*discordgo.File{{
				Name:        "reddit_video.mp4",
				ContentType: "video/mp4",
				Reader:      bytes.NewReader(data),
			}},
			Components: buttonRow(redditButton, watchButton),
		})
	}

	// Too large or unreachable: link out instead of uploading.
	if thumb := post.PreviewImageURL(); thumb != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: thumb}
	} else if post.Thumbnail != "" && post.Thumbnail != "default" {
		embed.Image = &discordgo.MessageEmbedImage{URL: post.Thumbnail}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Note", Value: uploadLimitNote})

	finishEmbed(embed, post, crosspostFrom)
	return p.send(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: buttonRow(redditButton, watchButton),
	})
}

// cleanVideoPostText strips the player links and blank runs out of a video
// post body.
func cleanVideoPostText(selftext string, videoURLs []string) string {
	for _, u := range videoURLs {
		selftext = strings.ReplaceAll(selftext, u, "")
	}

	var lines []string
	for _, line := range strings.Split(selftext, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "&#x200B;" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n\n")
}
