package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

// channelProbe is the outcome of a channel liveness check. A probe with
// neither field set is inconclusive and must not cause removals.
type channelProbe struct {
	channel *discordgo.Channel
	gone    bool
}

func (p channelProbe) notForum() bool {
	return p.gone || (p.channel != nil && p.channel.Type != discordgo.ChannelTypeGuildForum)
}

// CleanupSubscriptions drops subscriptions whose Discord target no longer
// exists and expires old posted-submission records.
func (s *Scanner) CleanupSubscriptions(ctx context.Context) {
	started := time.Now()
	cache := make(map[string]channelProbe)
	removed := 0

	forumSubs, err := database.GetAllForumSubscriptions(s.db)
	if err != nil {
		utils.Error("Scanner", "Cleanup", fmt.Sprintf("Failed to load forum subscriptions: %v", err))
		return
	}
	for _, sub := range forumSubs {
		if ctx.Err() != nil {
			return
		}

		reason := ""
		if s.probeChannel(cache, sub.ChannelID).notForum() {
			reason = "forum not found"
		} else if s.probeChannel(cache, sub.ThreadID).gone {
			reason = "thread not found"
		}
		if reason == "" {
			continue
		}

		if _, err := database.RemoveForumSubscription(s.db, sub.Subreddit, sub.ChannelID, sub.ThreadID); err != nil {
			slog.Warn("failed to remove stale forum subscription", "subreddit", sub.Subreddit, "thread_id", sub.ThreadID, "error", err)
			continue
		}
		removed++
		utils.Warn("Scanner", "Cleanup", fmt.Sprintf("Removed stale forum subscription r/%s (thread %s): %s", sub.Subreddit, sub.ThreadID, reason))
	}

	individualSubs, err := database.GetAllIndividualForumSubscriptions(s.db)
	if err != nil {
		utils.Error("Scanner", "Cleanup", fmt.Sprintf("Failed to load individual forum subscriptions: %v", err))
		return
	}
	for _, sub := range individualSubs {
		if ctx.Err() != nil {
			return
		}
		if !s.probeChannel(cache, sub.ChannelID).notForum() {
			continue
		}

		if _, err := database.RemoveIndividualForumSubscription(s.db, sub.Subreddit, sub.ChannelID); err != nil {
			slog.Warn("failed to remove stale individual forum subscription", "subreddit", sub.Subreddit, "channel_id", sub.ChannelID, "error", err)
			continue
		}
		removed++
		utils.Warn("Scanner", "Cleanup", fmt.Sprintf("Removed stale individual forum subscription r/%s (forum %s): forum not found", sub.Subreddit, sub.ChannelID))
	}

	subscriptions, err := database.GetAllSubscriptions(s.db)
	if err != nil {
		utils.Error("Scanner", "Cleanup", fmt.Sprintf("Failed to load subscriptions: %v", err))
		return
	}
	for _, sub := range subscriptions {
		if ctx.Err() != nil {
			return
		}
		if !s.probeChannel(cache, sub.ChannelID).gone {
			continue
		}

		if _, err := database.RemoveSubscription(s.db, sub.Subreddit, sub.ChannelID); err != nil {
			slog.Warn("failed to remove stale subscription", "subreddit", sub.Subreddit, "channel_id", sub.ChannelID, "error", err)
			continue
		}
		removed++
		utils.Warn("Scanner", "Cleanup", fmt.Sprintf("Removed stale subscription r/%s (channel %s): channel not found", sub.Subreddit, sub.ChannelID))
	}

	// Flair settings for vanished channels have nothing left to configure.
	for channelID, probe := range cache {
		if !probe.gone {
			continue
		}
		if err := database.DeleteFlairSettings(s.db, channelID); err != nil {
			slog.Warn("failed to remove flair settings", "channel_id", channelID, "error", err)
		}
	}

	expired, err := database.DeletePostedBefore(s.db, time.Now().Add(-postedRetention))
	if err != nil {
		slog.Warn("failed to expire posted submissions", "error", err)
	}

	slog.Info("subscription cleanup finished",
		"removed", removed,
		"expired_posted", expired,
		"duration", time.Since(started).Round(time.Millisecond))
}

// probeChannel resolves a channel through the state cache first, then the
// API. Only a definite NotFound or Forbidden marks the channel gone, so a
// flaky connection never drops valid subscriptions.
func (s *Scanner) probeChannel(cache map[string]channelProbe, channelID string) channelProbe {
	if probe, ok := cache[channelID]; ok {
		return probe
	}

	probe := channelProbe{}
	if ch, err := s.session.State.Channel(channelID); err == nil {
		probe.channel = ch
	} else if ch, err := s.session.Channel(channelID); err == nil {
		probe.channel = ch
	} else {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil &&
			(restErr.Response.StatusCode == http.StatusNotFound || restErr.Response.StatusCode == http.StatusForbidden) {
			probe.gone = true
		}
	}

	cache[channelID] = probe
	return probe
}
