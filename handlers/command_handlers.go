package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
)

const (
	// messageChunkLimit is the Discord content limit for one message.
	messageChunkLimit = 2000

	// seedListingLimit is how many submissions a subscribe command fetches
	// to validate the subreddit and baseline the posted history.
	seedListingLimit = 25

	validateTimeout = 30 * time.Second
)

func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// deferEphemeral acknowledges the interaction right away so slow handlers can
// finish in a goroutine and reply through a followup.
func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		slog.Warn("failed to send followup", "command", i.ApplicationCommandData().Name, "error", err)
	}
}

// followupChunks splits a long response at line boundaries so every message
// stays under the content limit.
func followupChunks(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	for _, chunk := range splitMessage(content, messageChunkLimit) {
		followup(s, i, chunk)
	}
}

func splitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if current.Len() > 0 && current.Len()+len(line)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func normalizeSubreddit(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, "r/")
	return name
}

// validateSubreddit fetches the newest submissions to prove the subreddit
// exists and is readable. The listing doubles as the baseline for the posted
// history.
func validateSubreddit(b *bot.Bot, subreddit string) ([]*reddit.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	response, err := b.Reddit.GetNew(ctx, &reddit.PostsRequest{
		Subreddit:  subreddit,
		Pagination: reddit.Pagination{Limit: seedListingLimit},
	})
	if err != nil {
		return nil, err
	}
	return response.Posts, nil
}

func subredditErrorMessage(subreddit string, err error) string {
	var apiErr *reddit.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusNotFound) {
		return fmt.Sprintf("r/%s does not exist or is not accessible.", subreddit)
	}
	return fmt.Sprintf("Could not reach Reddit to verify r/%s. Please try again later.", subreddit)
}

// HandleSubscribe handles the logic for the /subscribe command.
func HandleSubscribe(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var subreddit string
	if opt, ok := optionMap["subreddit"]; ok {
		subreddit = normalizeSubreddit(opt.StringValue())
	}
	var channel *discordgo.Channel
	if opt, ok := optionMap["channel"]; ok {
		channel = opt.ChannelValue(s)
	}
	if subreddit == "" || channel == nil {
		respondEphemeral(s, i, "Both a subreddit and a channel are required.")
		return
	}

	deferEphemeral(s, i)

	go func() {
		started := time.Now()

		exists, err := database.SubscriptionExists(b.DB, subreddit, channel.ID)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while checking the subscription: %v", err))
			return
		}
		if exists {
			followup(s, i, fmt.Sprintf("Already subscribed to r/%s in <#%s>", subreddit, channel.ID))
			return
		}

		posts, err := validateSubreddit(b, subreddit)
		if err != nil {
			followup(s, i, subredditErrorMessage(subreddit, err))
			return
		}

		added, err := database.AddSubscription(b.DB, subreddit, channel.ID)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while saving the subscription: %v", err))
			return
		}
		if !added {
			followup(s, i, fmt.Sprintf("Already subscribed to r/%s in <#%s>", subreddit, channel.ID))
			return
		}

		b.Scanner.Baseline(subreddit, channel.ID, posts)
		newest := ""
		if len(posts) > 0 {
			newest = posts[0].Name
		}
		if err := database.UpdateSubscriptionTracking(b.DB, subreddit, channel.ID, time.Now().UTC(), newest); err != nil {
			slog.Warn("failed to seed subscription tracking", "subreddit", subreddit, "channel_id", channel.ID, "error", err)
		}

		followup(s, i, fmt.Sprintf("Subscribed to r/%s in <#%s>", subreddit, channel.ID))
		slog.Info("subscription added", "subreddit", subreddit, "channel_id", channel.ID, "duration", time.Since(started).Round(time.Millisecond))
	}()
}

// HandleUnsubscribe handles the logic for the /unsubscribe command.
func HandleUnsubscribe(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var subreddit string
	if opt, ok := optionMap["subreddit"]; ok {
		subreddit = normalizeSubreddit(opt.StringValue())
	}
	var channel *discordgo.Channel
	if opt, ok := optionMap["channel"]; ok {
		channel = opt.ChannelValue(s)
	}
	if subreddit == "" || channel == nil {
		respondEphemeral(s, i, "Both a subreddit and a channel are required.")
		return
	}

	removed, err := database.RemoveSubscription(b.DB, subreddit, channel.ID)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("An error occurred while removing the subscription: %v", err))
		return
	}
	if !removed {
		respondEphemeral(s, i, fmt.Sprintf("No subscription found for r/%s in <#%s>", subreddit, channel.ID))
		return
	}

	slog.Info("subscription removed", "subreddit", subreddit, "channel_id", channel.ID)
	respondEphemeral(s, i, fmt.Sprintf("Unsubscribed from r/%s in <#%s>", subreddit, channel.ID))
}

// HandleListSubscriptions handles the logic for the /list_subscriptions command.
func HandleListSubscriptions(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	go func() {
		subscriptions, err := database.GetAllSubscriptions(b.DB)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while listing subscriptions: %v", err))
			return
		}
		if len(subscriptions) == 0 {
			followup(s, i, "No subscriptions found.")
			return
		}

		var sb strings.Builder
		sb.WriteString("Subreddit subscriptions:\n\n")
		currentChannel := ""
		for _, sub := range subscriptions {
			if sub.ChannelID != currentChannel {
				fmt.Fprintf(&sb, "<#%s>:\n", sub.ChannelID)
				currentChannel = sub.ChannelID
			}
			fmt.Fprintf(&sb, "- r/%s\n", sub.Subreddit)
		}

		followupChunks(s, i, sb.String())
	}()
}

// HandleSetButtonVisibility handles the logic for the /set_button_visibility command.
func HandleSetButtonVisibility(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var button string
	if opt, ok := optionMap["button"]; ok {
		button = opt.StringValue()
	}
	visible := false
	if opt, ok := optionMap["visible"]; ok {
		visible = opt.BoolValue()
	}

	state := "hidden"
	if visible {
		state = "visible"
	}

	if button == "all" {
		if err := database.SetAllButtonVisibility(b.DB, visible); err != nil {
			respondEphemeral(s, i, fmt.Sprintf("An error occurred while updating button visibility: %v", err))
			return
		}
		respond(s, i, fmt.Sprintf("All buttons are now %s.", state))
		return
	}

	ok, err := database.SetButtonVisibility(b.DB, button, visible)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("An error occurred while updating button visibility: %v", err))
		return
	}
	if !ok {
		respondEphemeral(s, i, fmt.Sprintf("Unknown button: %s", button))
		return
	}
	respond(s, i, fmt.Sprintf("The '%s' button is now %s.", button, state))
}

// HandleGetButtonVisibility handles the logic for the /get_button_visibility command.
func HandleGetButtonVisibility(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	visibility, err := database.GetButtonVisibility(b.DB)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("An error occurred while fetching button visibility settings: %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString("Current button visibility settings:\n\n")
	for _, name := range database.ButtonNames {
		state := "Hidden"
		if visibility[name] {
			state = "Visible"
		}
		fmt.Fprintf(&sb, "%s: %s\n", name, state)
	}
	respond(s, i, sb.String())
}
