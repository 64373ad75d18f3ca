package handlers

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/models"
)

// maxFlairLimit caps how many flairs can become forum tags, matching
// Discord's tag limit for forum channels.
const maxFlairLimit = 20

func clampFlairs(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxFlairLimit {
		return maxFlairLimit
	}
	return n
}

func splitFlairList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

func removeFold(items []string, target string) []string {
	kept := items[:0]
	for _, item := range items {
		if !strings.EqualFold(item, target) {
			kept = append(kept, item)
		}
	}
	return kept
}

// flairSettingsFromOptions assembles the flair settings a subscribe command
// carries, falling back to the defaults the scanner assumes.
func flairSettingsFromOptions(forumID string, optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption) models.FlairSettings {
	settings := models.FlairSettings{
		ChannelID:    forumID,
		MaxFlairs:    maxFlairLimit,
		FlairEnabled: true,
	}
	if opt, ok := optionMap["enable_flairs"]; ok {
		settings.FlairEnabled = opt.BoolValue()
	}
	if opt, ok := optionMap["max_flairs"]; ok {
		settings.MaxFlairs = clampFlairs(int(opt.IntValue()))
	}
	if opt, ok := optionMap["blacklisted_flairs"]; ok {
		settings.BlacklistedFlairs = splitFlairList(opt.StringValue())
	}
	return settings
}

// HandleSubscribeForum handles the logic for the /subscribe_forum command.
func HandleSubscribeForum(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var subreddit string
	if opt, ok := optionMap["subreddit"]; ok {
		subreddit = normalizeSubreddit(opt.StringValue())
	}
	var forum *discordgo.Channel
	if opt, ok := optionMap["forum"]; ok {
		forum = opt.ChannelValue(s)
	}
	var thread *discordgo.Channel
	if opt, ok := optionMap["thread"]; ok {
		thread = opt.ChannelValue(s)
	}
	if subreddit == "" || forum == nil {
		respondEphemeral(s, i, "Both a subreddit and a forum channel are required.")
		return
	}
	settings := flairSettingsFromOptions(forum.ID, optionMap)

	deferEphemeral(s, i)

	go func() {
		started := time.Now()

		if thread != nil && thread.ParentID != forum.ID {
			followup(s, i, "The specified thread does not belong to the selected forum.")
			return
		}

		posts, err := validateSubreddit(b, subreddit)
		if err != nil {
			followup(s, i, subredditErrorMessage(subreddit, err))
			return
		}

		if thread == nil {
			created, err := s.ForumThreadStart(forum.ID, "Updates for r/"+subreddit, 0,
				"This thread will contain updates from r/"+subreddit)
			if err != nil {
				followup(s, i, fmt.Sprintf("Could not create a thread in <#%s>: %v", forum.ID, err))
				return
			}
			thread = created
		}

		added, err := database.AddForumSubscription(b.DB, subreddit, forum.ID, thread.ID)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while saving the subscription: %v", err))
			return
		}
		if !added {
			followup(s, i, fmt.Sprintf("You are already subscribed to r/%s in this forum.", subreddit))
			return
		}

		if err := database.SaveFlairSettings(b.DB, settings); err != nil {
			slog.Warn("failed to save flair settings", "forum_id", forum.ID, "error", err)
		}

		b.Scanner.Baseline(subreddit, thread.ID, posts)
		newest := ""
		if len(posts) > 0 {
			newest = posts[0].Name
		}
		if err := database.UpdateForumSubscriptionTracking(b.DB, subreddit, forum.ID, thread.ID, time.Now().UTC(), newest); err != nil {
			slog.Warn("failed to seed forum tracking", "subreddit", subreddit, "thread_id", thread.ID, "error", err)
		}

		followup(s, i, fmt.Sprintf("Successfully subscribed to r/%s in the specified forum thread.", subreddit))
		slog.Info("forum subscription added", "subreddit", subreddit, "thread_id", thread.ID, "duration", time.Since(started).Round(time.Millisecond))
	}()
}

// HandleSubscribeForumIndividual handles the logic for the
// /subscribe_forum_individual command.
func HandleSubscribeForumIndividual(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var subreddit string
	if opt, ok := optionMap["subreddit"]; ok {
		subreddit = normalizeSubreddit(opt.StringValue())
	}
	var forum *discordgo.Channel
	if opt, ok := optionMap["forum"]; ok {
		forum = opt.ChannelValue(s)
	}
	if subreddit == "" || forum == nil {
		respondEphemeral(s, i, "Both a subreddit and a forum channel are required.")
		return
	}
	settings := flairSettingsFromOptions(forum.ID, optionMap)

	deferEphemeral(s, i)

	go func() {
		started := time.Now()

		posts, err := validateSubreddit(b, subreddit)
		if err != nil {
			followup(s, i, subredditErrorMessage(subreddit, err))
			return
		}

		added, err := database.AddIndividualForumSubscription(b.DB, subreddit, forum.ID)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while saving the subscription: %v", err))
			return
		}
		if !added {
			followup(s, i, fmt.Sprintf("Already subscribed to r/%s in <#%s> for individual posts", subreddit, forum.ID))
			return
		}

		if err := database.SaveFlairSettings(b.DB, settings); err != nil {
			slog.Warn("failed to save flair settings", "forum_id", forum.ID, "error", err)
		}

		b.Scanner.Baseline(subreddit, forum.ID, posts)
		if err := database.UpdateIndividualForumTracking(b.DB, subreddit, forum.ID, time.Now().UTC()); err != nil {
			slog.Warn("failed to seed individual forum tracking", "subreddit", subreddit, "forum_id", forum.ID, "error", err)
		}

		followup(s, i, fmt.Sprintf("Subscribed to r/%s in <#%s>. Each new post will create a separate thread.", subreddit, forum.ID))

		// Publish the newest submission right away as the first thread.
		if len(posts) > 0 {
			if _, err := b.Publisher.PublishToNewThread(posts[0], forum.ID); err != nil {
				slog.Error("failed to publish the newest submission", "subreddit", subreddit, "forum_id", forum.ID, "error", err)
			}
		}
		slog.Info("individual forum subscription added", "subreddit", subreddit, "forum_id", forum.ID, "duration", time.Since(started).Round(time.Millisecond))
	}()
}

// HandleUnsubscribeForum handles the logic for the /unsubscribe_forum command.
func HandleUnsubscribeForum(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var subreddit string
	if opt, ok := optionMap["subreddit"]; ok {
		subreddit = normalizeSubreddit(opt.StringValue())
	}
	var forum, thread *discordgo.Channel
	if opt, ok := optionMap["forum"]; ok {
		forum = opt.ChannelValue(s)
	}
	if opt, ok := optionMap["thread"]; ok {
		thread = opt.ChannelValue(s)
	}
	if subreddit == "" || forum == nil || thread == nil {
		respondEphemeral(s, i, "A subreddit, a forum channel and a thread are required.")
		return
	}

	removed, err := database.RemoveForumSubscription(b.DB, subreddit, forum.ID, thread.ID)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("An error occurred while removing the subscription: %v", err))
		return
	}
	if !removed {
		respondEphemeral(s, i, fmt.Sprintf("No subscription found for r/%s in thread <#%s>", subreddit, thread.ID))
		return
	}

	slog.Info("forum subscription removed", "subreddit", subreddit, "thread_id", thread.ID)
	respondEphemeral(s, i, fmt.Sprintf("Unsubscribed from r/%s in thread <#%s>", subreddit, thread.ID))
}

// HandleUnsubscribeForumIndividual handles the logic for the
// /unsubscribe_forum_individual command.
func HandleUnsubscribeForumIndividual(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var subreddit string
	if opt, ok := optionMap["subreddit"]; ok {
		subreddit = normalizeSubreddit(opt.StringValue())
	}
	var forum *discordgo.Channel
	if opt, ok := optionMap["forum"]; ok {
		forum = opt.ChannelValue(s)
	}
	if subreddit == "" || forum == nil {
		respondEphemeral(s, i, "Both a subreddit and a forum channel are required.")
		return
	}

	removed, err := database.RemoveIndividualForumSubscription(b.DB, subreddit, forum.ID)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("An error occurred while removing the subscription: %v", err))
		return
	}
	if !removed {
		respondEphemeral(s, i, fmt.Sprintf("No subscription found for r/%s in <#%s> for individual posts", subreddit, forum.ID))
		return
	}

	slog.Info("individual forum subscription removed", "subreddit", subreddit, "forum_id", forum.ID)
	respondEphemeral(s, i, fmt.Sprintf("Unsubscribed from r/%s in <#%s> for individual posts.", subreddit, forum.ID))
}

// HandleListForumSubscriptions handles the logic for the
// /list_forum_subscriptions command.
func HandleListForumSubscriptions(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	go func() {
		forumSubs, err := database.GetAllForumSubscriptions(b.DB)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while listing forum subscriptions: %v", err))
			return
		}
		individualSubs, err := database.GetAllIndividualForumSubscriptions(b.DB)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while listing forum subscriptions: %v", err))
			return
		}
		if len(forumSubs) == 0 && len(individualSubs) == 0 {
			followup(s, i, "No forum subscriptions found.")
			return
		}

		var sb strings.Builder
		sb.WriteString("Forum subreddit subscriptions:\n\n")

		if len(forumSubs) > 0 {
			sb.WriteString("Forum thread subscriptions:\n")
			currentForum, currentThread := "", ""
			for _, sub := range forumSubs {
				if sub.ChannelID != currentForum {
					fmt.Fprintf(&sb, "Forum <#%s>:\n", sub.ChannelID)
					currentForum = sub.ChannelID
					currentThread = ""
				}
				if sub.ThreadID != currentThread {
					fmt.Fprintf(&sb, "  Thread <#%s>:\n", sub.ThreadID)
					currentThread = sub.ThreadID
				}
				fmt.Fprintf(&sb, "    - r/%s\n", sub.Subreddit)
			}
			sb.WriteString("\n")
		}

		if len(individualSubs) > 0 {
			sb.WriteString("Individual post forum subscriptions:\n")
			currentForum := ""
			for _, sub := range individualSubs {
				if sub.ChannelID != currentForum {
					fmt.Fprintf(&sb, "Forum <#%s>:\n", sub.ChannelID)
					currentForum = sub.ChannelID
				}
				fmt.Fprintf(&sb, "  - r/%s (individual posts)\n", sub.Subreddit)
			}
		}

		followupChunks(s, i, sb.String())
	}()
}

// HandleManageFlairs handles the logic for the /manage_flairs command.
func HandleManageFlairs(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := commandOptions(i)

	var forum *discordgo.Channel
	if opt, ok := optionMap["forum"]; ok {
		forum = opt.ChannelValue(s)
	}
	if forum == nil {
		respondEphemeral(s, i, "A forum channel is required.")
		return
	}

	deferEphemeral(s, i)

	go func() {
		settings, err := database.GetFlairSettings(b.DB, forum.ID)
		if err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while loading the flair settings: %v", err))
			return
		}

		changed := false
		var notes []string

		if opt, ok := optionMap["enable_flairs"]; ok {
			if v := opt.BoolValue(); v != settings.FlairEnabled {
				settings.FlairEnabled = v
				changed = true
			}
		}
		if opt, ok := optionMap["max_flairs"]; ok {
			if v := clampFlairs(int(opt.IntValue())); v != settings.MaxFlairs {
				settings.MaxFlairs = v
				changed = true
			}
		}
		if opt, ok := optionMap["add_blacklist"]; ok {
			var added []string
			for _, item := range splitFlairList(opt.StringValue()) {
				if !containsFold(settings.BlacklistedFlairs, item) {
					settings.BlacklistedFlairs = append(settings.BlacklistedFlairs, item)
					added = append(added, item)
				}
			}
			if len(added) > 0 {
				changed = true
				notes = append(notes, fmt.Sprintf("Added to the blacklist: %s", strings.Join(added, ", ")))
			}
		}
		if opt, ok := optionMap["remove_blacklist"]; ok {
			var removed []string
			for _, item := range splitFlairList(opt.StringValue()) {
				before := len(settings.BlacklistedFlairs)
				settings.BlacklistedFlairs = removeFold(settings.BlacklistedFlairs, item)
				if len(settings.BlacklistedFlairs) < before {
					removed = append(removed, item)
				}
			}
			if len(removed) > 0 {
				changed = true
				notes = append(notes, fmt.Sprintf("Removed from the blacklist: %s", strings.Join(removed, ", ")))
			}
		}

		if !changed {
			followup(s, i, "No changes were made to the flair settings.")
			return
		}

		settings.ChannelID = forum.ID
		if err := database.SaveFlairSettings(b.DB, settings); err != nil {
			followup(s, i, fmt.Sprintf("An error occurred while saving the flair settings: %v", err))
			return
		}

		// Newly blacklisted flairs also lose their existing forum tags.
		if removedTags, err := b.Publisher.SyncForumTags(forum.ID); err != nil {
			slog.Warn("failed to sync forum tags", "forum_id", forum.ID, "error", err)
		} else if len(removedTags) > 0 {
			notes = append(notes, fmt.Sprintf("Removed forum tags: %s", strings.Join(removedTags, ", ")))
		}

		state := "Disabled"
		if settings.FlairEnabled {
			state = "Enabled"
		}
		blacklist := "None"
		if len(settings.BlacklistedFlairs) > 0 {
			blacklist = strings.Join(settings.BlacklistedFlairs, ", ")
		}

		summary := fmt.Sprintf("Flair settings updated for <#%s>:\nFlair-to-tag conversion: %s\nMax flairs: %d\nBlacklisted flairs: %s",
			forum.ID, state, settings.MaxFlairs, blacklist)
		if len(notes) > 0 {
			summary += "\n\n" + strings.Join(notes, "\n")
		}
		followup(s, i, summary)
	}()
}
