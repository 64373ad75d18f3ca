// Package publisher turns reddit submissions into Discord messages: embeds,
// link buttons, image carousels, re-uploaded video files and forum threads.
package publisher

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// Publisher delivers formatted submissions to channels and forum threads.
type Publisher struct {
	session    *discordgo.Session
	db         *sql.DB
	httpClient *http.Client

	oembedURL string
}

// New creates a Publisher on top of an open session and database handle.
func New(session *discordgo.Session, db *sql.DB) *Publisher {
	return &Publisher{
		session:    session,
		db:         db,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		oembedURL:  youtubeOembedURL,
	}
}

// Publish formats the submission and sends it to a text channel or thread.
// The message layout depends on the submission's media type.
func (p *Publisher) Publish(post *reddit.Post, channelID string) error {
	visibility := p.buttonVisibility()

	// Crossposts publish the parent's media under the child's identity. A
	// parent with neither a link nor a body was removed, so the child's own
	// fields are the best remaining source.
	processing := post
	crosspostFrom := ""
	if parent := post.CrosspostParent(); parent != nil && (parent.URL != "" || parent.SelfText != "") {
		merged := *parent
		merged.Title = post.Title
		merged.Subreddit = post.Subreddit
		merged.Author = post.Author
		merged.CreatedUTC = post.CreatedUTC
		merged.Permalink = post.Permalink
		processing = &merged
		crosspostFrom = parent.Subreddit
	}

	if processing.PollData != nil {
		return p.publishPoll(processing, channelID, visibility)
	}

	if handled, err := p.publishSelftextVideo(processing, channelID, visibility); handled || err != nil {
		return err
	}

	embed := baseEmbed(processing)
	if processing.SelfText != "" {
		if cleaned := utils.CleanSelftext(processing.SelfText); cleaned != "" {
			embed.Description = utils.Truncate(cleaned, descriptionLimit)
		}
	}

	if processing.IsGallery {
		if handled, err := p.publishGallery(processing, channelID, embed, visibility, crosspostFrom); handled || err != nil {
			return err
		}
	}

	if strings.Contains(processing.URL, "redgifs.com") {
		return p.publishRedGifs(processing, channelID, embed, visibility, crosspostFrom)
	}

	if processing.IsSelf {
		return p.publishSelfPost(processing, channelID, embed, visibility, crosspostFrom)
	}

	return p.publishLink(processing, channelID, embed, visibility, crosspostFrom)
}

// publishLink handles everything that is fundamentally a link post: direct
// images, reddit-hosted video, YouTube, unresolved galleries and plain URLs.
func (p *Publisher) publishLink(post *reddit.Post, channelID string, embed *discordgo.MessageEmbed, visibility map[string]bool, crosspostFrom string) error {
	redditButton := button("Reddit Post", post.PermalinkURL(), visibility)

	if imageURL := directImageURL(post); imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
		finishEmbed(embed, post, crosspostFrom)
		return p.send(channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: buttonRow(redditButton),
		})
	}

	if videoURL := post.VideoURL(); videoURL != "" {
		return p.publishRedditVideo(post, channelID, embed, videoURL, visibility, crosspostFrom)
	}

	if videoID := utils.ExtractVideoID(post.URL); videoID != "" {
		watchURL := "https://www.youtube.com/watch?v=" + videoID
		title, thumbnail := p.youtubeInfo(videoID)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: title, Value: watchURL})
		embed.Image = &discordgo.MessageEmbedImage{URL: thumbnail}
		finishEmbed(embed, post, crosspostFrom)
		return p.send(channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: buttonRow(redditButton, button("YouTube Link", watchURL, visibility)),
		})
	}

	var typeButton *discordgo.Button
	if strings.Contains(post.URL, "/gallery/") {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Image Gallery Link", Value: post.URL})
		typeButton = button("Image Gallery", post.URL, visibility)
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Link", Value: post.URL})
		typeButton = button("Web Link", post.URL, visibility)
	}

	finishEmbed(embed, post, crosspostFrom)
	return p.send(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: buttonRow(redditButton, typeButton),
	})
}

func (p *Publisher) send(channelID string, message *discordgo.MessageSend) error {
	message.AllowedMentions = &discordgo.MessageAllowedMentions{
		Parse: []discordgo.AllowedMentionType{},
	}

	if _, err := p.session.ChannelMessageSendComplex(channelID, message); err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

func (p *Publisher) buttonVisibility() map[string]bool {
	visibility, err := database.GetButtonVisibility(p.db)
	if err != nil {
		slog.Warn("failed to load button visibility, defaulting to visible", "error", err)
		return map[string]bool{}
	}
	return visibility
}

// directImageURL resolves straightforward image links, normalizing
// preview.redd.it to the matching i.redd.it file.
func directImageURL(post *reddit.Post) string {
	parsed, err := url.Parse(post.URL)
	if err != nil {
		return ""
	}

	switch parsed.Host {
	case "preview.redd.it":
		if hasImageExtension(parsed.Path) {
			return "https://i.redd.it" + parsed.Path
		}
	case "i.redd.it", "i.imgur.com":
		return post.URL
	}
	return ""
}
