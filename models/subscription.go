package models

import "time"

// Subscription binds a subreddit to a text channel. LastCheck and
// LastSubmissionID window the next scan so only unseen submissions are
// published; FailedAttempts counts consecutive fetch failures.
type Subscription struct {
	Subreddit        string    `db:"subreddit"`
	ChannelID        string    `db:"channel_id"`
	LastCheck        time.Time `db:"last_check"`
	LastSubmissionID string    `db:"last_submission_id"`
	FailedAttempts   int       `db:"failed_attempts"`
}

// ForumSubscription binds a subreddit to one existing thread inside a forum
// channel. Every submission is posted into that thread.
type ForumSubscription struct {
	Subreddit        string    `db:"subreddit"`
	ChannelID        string    `db:"channel_id"`
	ThreadID         string    `db:"thread_id"`
	LastCheck        time.Time `db:"last_check"`
	LastSubmissionID string    `db:"last_submission_id"`
}

// IndividualForumSubscription opens a new forum thread for every submission
// of the subreddit.
type IndividualForumSubscription struct {
	Subreddit string    `db:"subreddit"`
	ChannelID string    `db:"channel_id"`
	LastCheck time.Time `db:"last_check"`
}
