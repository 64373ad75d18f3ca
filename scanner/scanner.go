// Package scanner polls subscribed subreddits on a schedule and hands new
// submissions to the publisher. It owns the tracking windows, the duplicate
// suppression and the periodic housekeeping jobs.
package scanner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"github.com/Trai60/Reddit-to-Discord-Bot/database"
	"github.com/Trai60/Reddit-to-Discord-Bot/models"
	"github.com/Trai60/Reddit-to-Discord-Bot/publisher"
	"github.com/Trai60/Reddit-to-Discord-Bot/reddit"
	"github.com/Trai60/Reddit-to-Discord-Bot/utils"
)

const (
	maxFetchAttempts = 3
	rateLimitBackoff = 60 * time.Second
	transientBackoff = 5 * time.Second

	// sweepPacing spaces subscriptions out during the consistency sweep.
	sweepPacing = 2 * time.Second

	// sweepOverlap is how far the sweep rewinds each tracking window to
	// re-examine submissions the regular cycles may have missed.
	sweepOverlap = 6 * time.Hour

	// postedRetention is how long posted-submission records are kept.
	// Must stay well past sweepOverlap or the sweep would repost.
	postedRetention = 7 * 24 * time.Hour
)

// Scanner walks every subscription, fetches what is new on Reddit and
// publishes it to the subscribed channel or thread.
type Scanner struct {
	session   *discordgo.Session
	db        *sql.DB
	reddit    *reddit.Client
	publisher *publisher.Publisher

	fetchLimit int
}

// New wires a scanner over the shared session, database, Reddit client and
// publisher.
func New(session *discordgo.Session, db *sql.DB, client *reddit.Client, pub *publisher.Publisher) *Scanner {
	fetchLimit := viper.GetInt("scanner.fetchLimit")
	if fetchLimit <= 0 {
		fetchLimit = 10
	}

	return &Scanner{
		session:    session,
		db:         db,
		reddit:     client,
		publisher:  pub,
		fetchLimit: fetchLimit,
	}
}

// cycle carries the state shared by one pass over all subscriptions: the
// in-memory duplicate set and which forums already had their tags synced.
type cycle struct {
	processed map[string]bool
	synced    map[string]bool
	sweep     bool
}

// ScanAll runs one poll cycle over every subscription kind.
func (s *Scanner) ScanAll(ctx context.Context) {
	s.scan(ctx, false)
}

// ConsistencyCheck re-walks every subscription with the tracking window
// rewound, publishing anything the regular cycles missed. Requests are paced
// so the sweep stays gentle on both APIs.
func (s *Scanner) ConsistencyCheck(ctx context.Context) {
	s.scan(ctx, true)
}

func (s *Scanner) scan(ctx context.Context, sweep bool) {
	operation := "Scan"
	if sweep {
		operation = "ConsistencyCheck"
	}
	started := time.Now()

	cy := &cycle{
		processed: make(map[string]bool),
		synced:    make(map[string]bool),
		sweep:     sweep,
	}

	subscriptions, err := database.GetAllSubscriptions(s.db)
	if err != nil {
		utils.Error("Scanner", operation, fmt.Sprintf("Failed to load subscriptions: %v", err))
		return
	}
	for _, sub := range subscriptions {
		if ctx.Err() != nil {
			return
		}
		s.scanSubscription(ctx, cy, sub)
		s.pace(ctx, cy)
	}

	forumSubs, err := database.GetAllForumSubscriptions(s.db)
	if err != nil {
		utils.Error("Scanner", operation, fmt.Sprintf("Failed to load forum subscriptions: %v", err))
		return
	}
	for _, sub := range forumSubs {
		if ctx.Err() != nil {
			return
		}
		s.scanForumSubscription(ctx, cy, sub)
		s.pace(ctx, cy)
	}

	individualSubs, err := database.GetAllIndividualForumSubscriptions(s.db)
	if err != nil {
		utils.Error("Scanner", operation, fmt.Sprintf("Failed to load individual forum subscriptions: %v", err))
		return
	}
	for _, sub := range individualSubs {
		if ctx.Err() != nil {
			return
		}
		s.scanIndividualForum(ctx, cy, sub)
		s.pace(ctx, cy)
	}

	slog.Info("subreddit scan finished",
		"sweep", sweep,
		"subscriptions", len(subscriptions),
		"forum_subscriptions", len(forumSubs),
		"individual_forum_subscriptions", len(individualSubs),
		"duration", time.Since(started).Round(time.Millisecond))
}

func (s *Scanner) scanSubscription(ctx context.Context, cy *cycle, sub models.Subscription) {
	posts, err := s.fetchNew(ctx, sub.Subreddit)
	if err != nil {
		s.recordFetchFailure(sub.Subreddit, sub.ChannelID, err)
		return
	}
	if err := database.ResetFailedAttempts(s.db, sub.Subreddit, sub.ChannelID); err != nil {
		slog.Warn("failed to reset failure count", "subreddit", sub.Subreddit, "error", err)
	}

	fresh := cy.selectPosts(posts, sub.LastCheck, sub.LastSubmissionID)
	s.deliver(cy, fresh, sub.Subreddit, sub.ChannelID, func(post *reddit.Post) error {
		return s.publisher.Publish(post, sub.ChannelID)
	})

	if err := database.UpdateSubscriptionTracking(s.db, sub.Subreddit, sub.ChannelID, time.Now().UTC(), newestName(posts)); err != nil {
		slog.Warn("failed to update tracking", "subreddit", sub.Subreddit, "channel_id", sub.ChannelID, "error", err)
	}
}

func (s *Scanner) scanForumSubscription(ctx context.Context, cy *cycle, sub models.ForumSubscription) {
	s.syncForum(cy, sub.ChannelID)

	posts, err := s.fetchNew(ctx, sub.Subreddit)
	if err != nil {
		s.recordFetchFailure(sub.Subreddit, "", err)
		return
	}

	fresh := cy.selectPosts(posts, sub.LastCheck, sub.LastSubmissionID)
	s.deliver(cy, fresh, sub.Subreddit, sub.ThreadID, func(post *reddit.Post) error {
		s.publisher.TagThread(post, sub.ChannelID, sub.ThreadID)
		return s.publisher.Publish(post, sub.ThreadID)
	})

	if err := database.UpdateForumSubscriptionTracking(s.db, sub.Subreddit, sub.ChannelID, sub.ThreadID, time.Now().UTC(), newestName(posts)); err != nil {
		slog.Warn("failed to update forum tracking", "subreddit", sub.Subreddit, "thread_id", sub.ThreadID, "error", err)
	}
}

func (s *Scanner) scanIndividualForum(ctx context.Context, cy *cycle, sub models.IndividualForumSubscription) {
	s.syncForum(cy, sub.ChannelID)

	posts, err := s.fetchNew(ctx, sub.Subreddit)
	if err != nil {
		s.recordFetchFailure(sub.Subreddit, "", err)
		return
	}

	fresh := cy.selectPosts(posts, sub.LastCheck, "")
	s.deliver(cy, fresh, sub.Subreddit, sub.ChannelID, func(post *reddit.Post) error {
		_, err := s.publisher.PublishToNewThread(post, sub.ChannelID)
		return err
	})

	if err := database.UpdateIndividualForumTracking(s.db, sub.Subreddit, sub.ChannelID, time.Now().UTC()); err != nil {
		slog.Warn("failed to update individual forum tracking", "subreddit", sub.Subreddit, "channel_id", sub.ChannelID, "error", err)
	}
}

// deliver publishes posts oldest-first, skipping stickies and anything the
// target has already received. Failures cost the single post, never the
// rest of the batch.
func (s *Scanner) deliver(cy *cycle, posts []*reddit.Post, subreddit, targetID string, publish func(*reddit.Post) error) {
	if len(posts) == 0 {
		return
	}

	posted, err := database.GetPostedSubmissionIDs(s.db, subreddit, targetID)
	if err != nil {
		utils.Error("Scanner", "Deliver", fmt.Sprintf("Failed to load posted history for r/%s: %v", subreddit, err))
		return
	}

	for _, post := range posts {
		if post.Stickied {
			continue
		}

		id := SubmissionIdentity(post)
		key := subreddit + "|" + targetID + "|" + id
		if cy.processed[key] || posted[id] {
			continue
		}

		if err := publish(post); err != nil {
			utils.Error("Scanner", "Publish", fmt.Sprintf("Failed to publish %s from r/%s: %v", post.Name, subreddit, err))
			continue
		}
		cy.processed[key] = true

		if err := database.MarkSubmissionPosted(s.db, subreddit, targetID, id); err != nil {
			slog.Warn("failed to record posted submission", "submission", id, "subreddit", subreddit, "error", err)
		}
		slog.Info("published submission", "subreddit", subreddit, "target", targetID, "submission", post.Name, "title", post.Title)
	}
}

// selectPosts picks the submissions to publish from a newest-first listing
// and returns them oldest-first. Regular cycles stop at the tracking window;
// sweeps rewind the window by sweepOverlap and lean on the posted history
// for duplicate suppression instead.
func (cy *cycle) selectPosts(posts []*reddit.Post, lastCheck time.Time, lastSubmissionID string) []*reddit.Post {
	if lastCheck.IsZero() && lastSubmissionID == "" {
		// Never scanned: baseline the window without replaying history.
		return nil
	}

	floor := lastCheck
	if cy.sweep && !lastCheck.IsZero() {
		floor = lastCheck.Add(-sweepOverlap)
	}

	var picked []*reddit.Post
	for _, post := range posts {
		if !cy.sweep && lastSubmissionID != "" && post.Name == lastSubmissionID {
			break
		}
		if !floor.IsZero() && !time.Unix(int64(post.CreatedUTC), 0).After(floor) {
			break
		}
		picked = append(picked, post)
	}

	for i, j := 0, len(picked)-1; i < j; i, j = i+1, j-1 {
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked
}

// SubmissionIdentity returns the identity used for duplicate suppression.
// Crossposts dedup on their parent so the same content is not republished to
// a target under a different title.
func SubmissionIdentity(post *reddit.Post) string {
	if parent := post.CrosspostParent(); parent != nil && parent.Name != "" {
		return parent.Name
	}
	return post.Name
}

// Baseline records a listing as already seen by a target. Subscribe commands
// call this so the consistency sweep never replays submissions that predate
// the subscription.
func (s *Scanner) Baseline(subreddit, targetID string, posts []*reddit.Post) {
	for _, post := range posts {
		if err := database.MarkSubmissionPosted(s.db, subreddit, targetID, SubmissionIdentity(post)); err != nil {
			slog.Warn("failed to baseline submission", "submission", post.Name, "subreddit", subreddit, "error", err)
		}
	}
}

// newestName returns the fullname of the newest submission in a listing, or
// "" to leave the stored marker untouched.
func newestName(posts []*reddit.Post) string {
	if len(posts) == 0 {
		return ""
	}
	return posts[0].Name
}

// fetchNew retrieves the newest submissions, retrying transient failures.
// Inaccessible subreddits fail fast, rate limits wait a minute, anything
// else gets a short pause and another attempt.
func (s *Scanner) fetchNew(ctx context.Context, subreddit string) ([]*reddit.Post, error) {
	request := &reddit.PostsRequest{
		Subreddit:  subreddit,
		Pagination: reddit.Pagination{Limit: s.fetchLimit},
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		response, err := s.reddit.GetNew(ctx, request)
		if err == nil {
			return response.Posts, nil
		}
		lastErr = err

		var apiErr *reddit.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusForbidden, http.StatusNotFound:
				// Private, banned or misspelled subreddit.
				return nil, err
			case http.StatusTooManyRequests:
				slog.Warn("rate limited by reddit", "subreddit", subreddit, "attempt", attempt)
				if err := sleepContext(ctx, rateLimitBackoff); err != nil {
					return nil, lastErr
				}
				continue
			}
		}

		if attempt < maxFetchAttempts {
			slog.Warn("transient fetch error, retrying", "subreddit", subreddit, "attempt", attempt, "error", err)
			if err := sleepContext(ctx, transientBackoff); err != nil {
				return nil, lastErr
			}
		}
	}
	return nil, lastErr
}

// recordFetchFailure reports a fetch that exhausted its attempts. Failures
// on plain channel subscriptions also bump the stored failure counter.
func (s *Scanner) recordFetchFailure(subreddit, channelID string, err error) {
	var apiErr *reddit.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusNotFound) {
		utils.Warn("Scanner", "Fetch", fmt.Sprintf("r/%s is not accessible (status %d). Consider removing this subscription.", subreddit, apiErr.StatusCode))
	} else {
		utils.Error("Scanner", "Fetch", fmt.Sprintf("Failed to fetch r/%s after %d attempts: %v", subreddit, maxFetchAttempts, err))
	}

	if channelID == "" {
		return
	}
	failures, dbErr := database.IncrementFailedAttempts(s.db, subreddit, channelID)
	if dbErr != nil {
		slog.Warn("failed to record fetch failure", "subreddit", subreddit, "error", dbErr)
		return
	}
	slog.Info("fetch failure recorded", "subreddit", subreddit, "channel_id", channelID, "consecutive", failures)
}

// syncForum reconciles a forum's tags against its flair blacklist, once per
// forum per cycle.
func (s *Scanner) syncForum(cy *cycle, forumID string) {
	if cy.synced[forumID] {
		return
	}
	cy.synced[forumID] = true

	removed, err := s.publisher.SyncForumTags(forumID)
	if err != nil {
		slog.Warn("failed to sync forum tags", "forum_id", forumID, "error", err)
		return
	}
	if len(removed) > 0 {
		slog.Info("removed blacklisted forum tags", "forum_id", forumID, "tags", removed)
	}
}

func (s *Scanner) pace(ctx context.Context, cy *cycle) {
	if cy.sweep {
		sleepContext(ctx, sweepPacing)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
