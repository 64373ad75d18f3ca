package publisher

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// maxUnixSeconds is the largest plausible end time in seconds. Values above
// it are milliseconds and get scaled down.
const maxUnixSeconds = 253402300799

// publishPoll renders a poll submission: numbered options, timing, the vote
// total and whatever media the poll body carries.
func (p *Publisher) publishPoll(post *reddit.Post, channelID string, visibility map[string]bool) error {
	embed := baseEmbed(post)

	videoLinks := playerLinkRE.FindAllString(post.SelfText, -1)
	if desc := cleanVideoPostText(post.SelfText, videoLinks); desc != "" {
		embed.Description = utils.Truncate(desc, descriptionLimit)
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Poll Options", Value: pollOptionLines(post.PollData)},
		pollTimingField(post.PollData, time.Now()),
		&discordgo.MessageEmbedField{Name: "Total Votes", Value: strconv.Itoa(post.PollData.TotalVoteCount)},
	)

	var imageURLs []string
	hasVideo := false
	for _, id := range sortedMetadataIDs(post) {
		meta := post.MediaMetadata[id]
		if meta == nil {
			continue
		}
		switch meta.Type {
		case "Image":
			if meta.Source != nil && meta.Source.URL != "" {
				imageURLs = append(imageURLs, stripQuery(html.UnescapeString(meta.Source.URL)))
			}
		case "AnimatedImage":
			if meta.Source != nil && meta.Source.GIF != "" {
				imageURLs = append(imageURLs, stripQuery(html.UnescapeString(meta.Source.GIF)))
			}
		case "RedditVideo":
			hasVideo = true
		}
	}

	embed.Footer = &discordgo.MessageEmbedFooter{Text: footerText(post, "Poll")}
	embed.Timestamp = createdTimestamp(post)

	redditButton := button("Reddit Post", post.PermalinkURL(), visibility)

	if hasVideo && len(videoLinks) > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{
				Name:  "Reddit Video",
				Value: "This type of Reddit video(s) can only be viewed online or via the Reddit App.",
			},
			&discordgo.MessageEmbedField{
				Name:  "Video Link(s)",
				Value: strings.Join(videoLinks, "\n"),
			},
		)
		return p.send(channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: buttonRow(redditButton, button("Watch Video", videoLinks[0], visibility)),
		})
	}

	if len(imageURLs) > 0 {
		if err := p.send(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
			return err
		}
		return p.sendImages(channelID, imageURLs, redditButton)
	}

	return p.send(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: buttonRow(redditButton),
	})
}

// pollOptionLines numbers the poll choices, one per line.
func pollOptionLines(pd *reddit.PollData) string {
	lines := make([]string, 0, len(pd.Options))
	for i, option := range pd.Options {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, option.Text))
	}
	return strings.Join(lines, "\n")
}

// pollTimingField describes when the poll closes relative to now.
func pollTimingField(pd *reddit.PollData, now time.Time) *discordgo.MessageEmbedField {
	if pd.VotingEndTimestamp <= 0 {
		return &discordgo.MessageEmbedField{Name: "Poll End Time", Value: "End time not available"}
	}

	endSeconds := pd.VotingEndTimestamp
	if endSeconds > maxUnixSeconds {
		endSeconds /= 1000
	}
	end := time.Unix(int64(endSeconds), 0)

	if !end.After(now) {
		return &discordgo.MessageEmbedField{Name: "Poll Status", Value: "Poll has ended"}
	}

	remaining := end.Sub(now)
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	return &discordgo.MessageEmbedField{
		Name:  "Poll Ends",
		Value: fmt.Sprintf("In %d days, %d hours, %d minutes", days, hours, minutes),
	}
}
