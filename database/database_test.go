package database

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Trai60/Reddit-to-Discord-Bot/models"
)

func newTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "subscriptions.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, dbPath
}

func mustAdd(t *testing.T, added bool, err error, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s error = %v", what, err)
	}
	if !added {
		t.Fatalf("%s = false, want true", what)
	}
}

func TestInitDBIdempotent(t *testing.T) {
	t.Parallel()

	_, dbPath := newTestDB(t)

	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("second InitDB() error = %v", err)
	}
	db.Close()
}

func TestSubscriptionLifecycle(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	added, err := AddSubscription(db, "golang", "chan-1")
	mustAdd(t, added, err, "AddSubscription()")

	added, err = AddSubscription(db, "golang", "chan-1")
	if err != nil {
		t.Fatalf("duplicate AddSubscription() error = %v", err)
	}
	if added {
		t.Error("duplicate AddSubscription() = true, want false")
	}

	exists, err := SubscriptionExists(db, "golang", "chan-1")
	if err != nil {
		t.Fatalf("SubscriptionExists() error = %v", err)
	}
	if !exists {
		t.Error("SubscriptionExists() = false, want true")
	}

	exists, err = SubscriptionExists(db, "rust", "chan-1")
	if err != nil {
		t.Fatalf("SubscriptionExists() error = %v", err)
	}
	if exists {
		t.Error("SubscriptionExists() for unknown pair = true, want false")
	}

	added, err = AddSubscription(db, "rust", "chan-1")
	mustAdd(t, added, err, "AddSubscription()")
	added, err = AddSubscription(db, "golang", "chan-2")
	mustAdd(t, added, err, "AddSubscription()")

	subs, err := GetAllSubscriptions(db)
	if err != nil {
		t.Fatalf("GetAllSubscriptions() error = %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("GetAllSubscriptions() returned %d subscriptions, want 3", len(subs))
	}
	if subs[0].Subreddit != "golang" || subs[0].ChannelID != "chan-1" {
		t.Errorf("first subscription = r/%s in %s, want r/golang in chan-1", subs[0].Subreddit, subs[0].ChannelID)
	}
	if subs[1].Subreddit != "rust" || subs[2].ChannelID != "chan-2" {
		t.Errorf("unexpected ordering: %+v", subs)
	}
	if !subs[0].LastCheck.IsZero() || subs[0].LastSubmissionID != "" || subs[0].FailedAttempts != 0 {
		t.Errorf("new subscription has tracking state: %+v", subs[0])
	}

	removed, err := RemoveSubscription(db, "rust", "chan-1")
	if err != nil {
		t.Fatalf("RemoveSubscription() error = %v", err)
	}
	if !removed {
		t.Error("RemoveSubscription() = false, want true")
	}

	removed, err = RemoveSubscription(db, "rust", "chan-1")
	if err != nil {
		t.Fatalf("RemoveSubscription() error = %v", err)
	}
	if removed {
		t.Error("RemoveSubscription() for missing row = true, want false")
	}
}

func TestSubscriptionTracking(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	added, err := AddSubscription(db, "golang", "chan-1")
	mustAdd(t, added, err, "AddSubscription()")

	checkTime := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := UpdateSubscriptionTracking(db, "golang", "chan-1", checkTime, "t3_abc"); err != nil {
		t.Fatalf("UpdateSubscriptionTracking() error = %v", err)
	}

	subs, err := GetAllSubscriptions(db)
	if err != nil {
		t.Fatalf("GetAllSubscriptions() error = %v", err)
	}
	if !subs[0].LastCheck.Equal(checkTime) {
		t.Errorf("LastCheck = %v, want %v", subs[0].LastCheck, checkTime)
	}
	if subs[0].LastSubmissionID != "t3_abc" {
		t.Errorf("LastSubmissionID = %q, want t3_abc", subs[0].LastSubmissionID)
	}

	// A quiet cycle advances the timestamp but keeps the submission marker.
	later := checkTime.Add(2 * time.Minute)
	if err := UpdateSubscriptionTracking(db, "golang", "chan-1", later, ""); err != nil {
		t.Fatalf("UpdateSubscriptionTracking() error = %v", err)
	}

	subs, _ = GetAllSubscriptions(db)
	if !subs[0].LastCheck.Equal(later) {
		t.Errorf("LastCheck = %v, want %v", subs[0].LastCheck, later)
	}
	if subs[0].LastSubmissionID != "t3_abc" {
		t.Errorf("LastSubmissionID after empty update = %q, want t3_abc", subs[0].LastSubmissionID)
	}

	if err := UpdateSubscriptionTracking(db, "golang", "chan-1", later.Add(time.Minute), "t3_def"); err != nil {
		t.Fatalf("UpdateSubscriptionTracking() error = %v", err)
	}
	subs, _ = GetAllSubscriptions(db)
	if subs[0].LastSubmissionID != "t3_def" {
		t.Errorf("LastSubmissionID = %q, want t3_def", subs[0].LastSubmissionID)
	}
}

func TestFailedAttempts(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	added, err := AddSubscription(db, "golang", "chan-1")
	mustAdd(t, added, err, "AddSubscription()")

	for want := 1; want <= 3; want++ {
		got, err := IncrementFailedAttempts(db, "golang", "chan-1")
		if err != nil {
			t.Fatalf("IncrementFailedAttempts() error = %v", err)
		}
		if got != want {
			t.Errorf("IncrementFailedAttempts() = %d, want %d", got, want)
		}
	}

	if err := ResetFailedAttempts(db, "golang", "chan-1"); err != nil {
		t.Fatalf("ResetFailedAttempts() error = %v", err)
	}

	subs, err := GetAllSubscriptions(db)
	if err != nil {
		t.Fatalf("GetAllSubscriptions() error = %v", err)
	}
	if subs[0].FailedAttempts != 0 {
		t.Errorf("FailedAttempts after reset = %d, want 0", subs[0].FailedAttempts)
	}

	got, err := IncrementFailedAttempts(db, "missing", "chan-1")
	if err != nil {
		t.Fatalf("IncrementFailedAttempts() for missing row error = %v", err)
	}
	if got != 0 {
		t.Errorf("IncrementFailedAttempts() for missing row = %d, want 0", got)
	}
}

func TestForumSubscriptionLifecycle(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	added, err := AddForumSubscription(db, "golang", "forum-1", "thread-1")
	mustAdd(t, added, err, "AddForumSubscription()")

	added, err = AddForumSubscription(db, "golang", "forum-1", "thread-1")
	if err != nil {
		t.Fatalf("duplicate AddForumSubscription() error = %v", err)
	}
	if added {
		t.Error("duplicate AddForumSubscription() = true, want false")
	}

	// Same subreddit into a second thread is a distinct subscription.
	added, err = AddForumSubscription(db, "golang", "forum-1", "thread-2")
	mustAdd(t, added, err, "AddForumSubscription()")
	added, err = AddForumSubscription(db, "rust", "forum-1", "thread-1")
	mustAdd(t, added, err, "AddForumSubscription()")

	checkTime := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := UpdateForumSubscriptionTracking(db, "golang", "forum-1", "thread-1", checkTime, "t3_abc"); err != nil {
		t.Fatalf("UpdateForumSubscriptionTracking() error = %v", err)
	}

	subs, err := GetAllForumSubscriptions(db)
	if err != nil {
		t.Fatalf("GetAllForumSubscriptions() error = %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("GetAllForumSubscriptions() returned %d subscriptions, want 3", len(subs))
	}

	var tracked *models.ForumSubscription
	for i := range subs {
		if subs[i].ThreadID == "thread-1" && subs[i].Subreddit == "golang" {
			tracked = &subs[i]
		}
	}
	if tracked == nil {
		t.Fatal("tracked forum subscription not returned")
	}
	if !tracked.LastCheck.Equal(checkTime) || tracked.LastSubmissionID != "t3_abc" {
		t.Errorf("tracked subscription = %+v, want LastCheck %v and t3_abc", tracked, checkTime)
	}

	deleted, err := RemoveForumSubscriptionsForThread(db, "thread-1")
	if err != nil {
		t.Fatalf("RemoveForumSubscriptionsForThread() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("RemoveForumSubscriptionsForThread() = %d, want 2", deleted)
	}

	removed, err := RemoveForumSubscription(db, "golang", "forum-1", "thread-2")
	if err != nil {
		t.Fatalf("RemoveForumSubscription() error = %v", err)
	}
	if !removed {
		t.Error("RemoveForumSubscription() = false, want true")
	}

	subs, _ = GetAllForumSubscriptions(db)
	if len(subs) != 0 {
		t.Errorf("%d forum subscriptions remain, want 0", len(subs))
	}
}

func TestIndividualForumSubscriptions(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	added, err := AddIndividualForumSubscription(db, "golang", "forum-1")
	mustAdd(t, added, err, "AddIndividualForumSubscription()")

	added, err = AddIndividualForumSubscription(db, "golang", "forum-1")
	if err != nil {
		t.Fatalf("duplicate AddIndividualForumSubscription() error = %v", err)
	}
	if added {
		t.Error("duplicate AddIndividualForumSubscription() = true, want false")
	}

	checkTime := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := UpdateIndividualForumTracking(db, "golang", "forum-1", checkTime); err != nil {
		t.Fatalf("UpdateIndividualForumTracking() error = %v", err)
	}

	subs, err := GetAllIndividualForumSubscriptions(db)
	if err != nil {
		t.Fatalf("GetAllIndividualForumSubscriptions() error = %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("GetAllIndividualForumSubscriptions() returned %d subscriptions, want 1", len(subs))
	}
	if !subs[0].LastCheck.Equal(checkTime) {
		t.Errorf("LastCheck = %v, want %v", subs[0].LastCheck, checkTime)
	}

	removed, err := RemoveIndividualForumSubscription(db, "golang", "forum-1")
	if err != nil {
		t.Fatalf("RemoveIndividualForumSubscription() error = %v", err)
	}
	if !removed {
		t.Error("RemoveIndividualForumSubscription() = false, want true")
	}
}

func TestPostedSubmissions(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	for _, id := range []string{"t3_one", "t3_two", "t3_one"} {
		if err := MarkSubmissionPosted(db, "golang", "chan-1", id); err != nil {
			t.Fatalf("MarkSubmissionPosted(%s) error = %v", id, err)
		}
	}
	if err := MarkSubmissionPosted(db, "golang", "chan-2", "t3_three"); err != nil {
		t.Fatalf("MarkSubmissionPosted() error = %v", err)
	}

	posted, err := GetPostedSubmissionIDs(db, "golang", "chan-1")
	if err != nil {
		t.Fatalf("GetPostedSubmissionIDs() error = %v", err)
	}
	want := map[string]bool{"t3_one": true, "t3_two": true}
	if !reflect.DeepEqual(posted, want) {
		t.Errorf("GetPostedSubmissionIDs() = %v, want %v", posted, want)
	}
}

func TestDeletePostedBefore(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	now := time.Now()
	old := now.Add(-8 * 24 * time.Hour)
	rows := []struct {
		id       string
		postedAt time.Time
	}{
		{id: "t3_old", postedAt: old},
		{id: "t3_new", postedAt: now},
	}
	for _, row := range rows {
		_, err := db.Exec(`INSERT INTO posted_submissions (subreddit, channel_id, submission_id, posted_at) VALUES (?, ?, ?, ?)`,
			"golang", "chan-1", row.id, row.postedAt.Unix())
		if err != nil {
			t.Fatalf("seed insert error = %v", err)
		}
	}

	deleted, err := DeletePostedBefore(db, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("DeletePostedBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeletePostedBefore() = %d, want 1", deleted)
	}

	posted, err := GetPostedSubmissionIDs(db, "golang", "chan-1")
	if err != nil {
		t.Fatalf("GetPostedSubmissionIDs() error = %v", err)
	}
	if !posted["t3_new"] || posted["t3_old"] {
		t.Errorf("remaining submissions = %v, want only t3_new", posted)
	}
}

func TestButtonVisibility(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	visibility, err := GetButtonVisibility(db)
	if err != nil {
		t.Fatalf("GetButtonVisibility() error = %v", err)
	}
	if len(visibility) != len(ButtonNames) {
		t.Fatalf("GetButtonVisibility() returned %d buttons, want %d", len(visibility), len(ButtonNames))
	}
	for _, name := range ButtonNames {
		visible, ok := visibility[name]
		if !ok {
			t.Errorf("button %q not seeded", name)
		}
		if !visible {
			t.Errorf("button %q seeded hidden, want visible", name)
		}
	}

	updated, err := SetButtonVisibility(db, "Watch Video", false)
	if err != nil {
		t.Fatalf("SetButtonVisibility() error = %v", err)
	}
	if !updated {
		t.Error("SetButtonVisibility() = false, want true")
	}

	updated, err = SetButtonVisibility(db, "Not A Button", false)
	if err != nil {
		t.Fatalf("SetButtonVisibility() for unknown button error = %v", err)
	}
	if updated {
		t.Error("SetButtonVisibility() for unknown button = true, want false")
	}

	visibility, _ = GetButtonVisibility(db)
	if visibility["Watch Video"] {
		t.Error("Watch Video still visible after hide")
	}
	if !visibility["Reddit Post"] {
		t.Error("Reddit Post hidden, want untouched")
	}

	if err := SetAllButtonVisibility(db, false); err != nil {
		t.Fatalf("SetAllButtonVisibility() error = %v", err)
	}
	visibility, _ = GetButtonVisibility(db)
	for name, visible := range visibility {
		if visible {
			t.Errorf("button %q visible after hiding all", name)
		}
	}
}

func TestFlairSettings(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	settings, err := GetFlairSettings(db, "forum-1")
	if err != nil {
		t.Fatalf("GetFlairSettings() error = %v", err)
	}
	if settings.MaxFlairs != 20 || !settings.FlairEnabled || len(settings.BlacklistedFlairs) != 0 {
		t.Errorf("default settings = %+v, want 20 flairs enabled with empty blacklist", settings)
	}

	saved := models.FlairSettings{
		ChannelID:         "forum-1",
		MaxFlairs:         5,
		FlairEnabled:      false,
		BlacklistedFlairs: []string{"Meta", "Mod Post"},
	}
	if err := SaveFlairSettings(db, saved); err != nil {
		t.Fatalf("SaveFlairSettings() error = %v", err)
	}

	settings, err = GetFlairSettings(db, "forum-1")
	if err != nil {
		t.Fatalf("GetFlairSettings() error = %v", err)
	}
	if settings.MaxFlairs != 5 || settings.FlairEnabled {
		t.Errorf("settings = %+v, want MaxFlairs 5 and flairs disabled", settings)
	}
	if !reflect.DeepEqual(settings.BlacklistedFlairs, saved.BlacklistedFlairs) {
		t.Errorf("BlacklistedFlairs = %v, want %v", settings.BlacklistedFlairs, saved.BlacklistedFlairs)
	}

	// Saving again replaces the row.
	saved.MaxFlairs = 10
	saved.BlacklistedFlairs = nil
	if err := SaveFlairSettings(db, saved); err != nil {
		t.Fatalf("SaveFlairSettings() error = %v", err)
	}
	settings, _ = GetFlairSettings(db, "forum-1")
	if settings.MaxFlairs != 10 || len(settings.BlacklistedFlairs) != 0 {
		t.Errorf("settings after replace = %+v, want MaxFlairs 10 with empty blacklist", settings)
	}

	if err := DeleteFlairSettings(db, "forum-1"); err != nil {
		t.Fatalf("DeleteFlairSettings() error = %v", err)
	}
	settings, _ = GetFlairSettings(db, "forum-1")
	if settings.MaxFlairs != 20 || !settings.FlairEnabled {
		t.Errorf("settings after delete = %+v, want defaults", settings)
	}
}

func TestRemoveSubscriptionsForChannel(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)

	added, err := AddSubscription(db, "golang", "chan-1")
	mustAdd(t, added, err, "AddSubscription()")
	added, err = AddSubscription(db, "golang", "chan-2")
	mustAdd(t, added, err, "AddSubscription()")
	added, err = AddForumSubscription(db, "rust", "chan-1", "thread-1")
	mustAdd(t, added, err, "AddForumSubscription()")
	added, err = AddIndividualForumSubscription(db, "python", "chan-1")
	mustAdd(t, added, err, "AddIndividualForumSubscription()")

	deleted, err := RemoveSubscriptionsForChannel(db, "chan-1")
	if err != nil {
		t.Fatalf("RemoveSubscriptionsForChannel() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("RemoveSubscriptionsForChannel() = %d, want 3", deleted)
	}

	subs, err := GetAllSubscriptions(db)
	if err != nil {
		t.Fatalf("GetAllSubscriptions() error = %v", err)
	}
	if len(subs) != 1 || subs[0].ChannelID != "chan-2" {
		t.Errorf("remaining subscriptions = %+v, want only chan-2", subs)
	}
}

func TestDatabaseStats(t *testing.T) {
	t.Parallel()

	db, dbPath := newTestDB(t)

	added, err := AddSubscription(db, "golang", "chan-1")
	mustAdd(t, added, err, "AddSubscription()")
	added, err = AddForumSubscription(db, "rust", "chan-1", "thread-1")
	mustAdd(t, added, err, "AddForumSubscription()")
	if err := MarkSubmissionPosted(db, "golang", "chan-1", "t3_one"); err != nil {
		t.Fatalf("MarkSubmissionPosted() error = %v", err)
	}

	stats, err := GetStats(db, dbPath)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.Subscriptions != 1 || stats.ForumSubscriptions != 1 || stats.IndividualForumSubscriptions != 0 {
		t.Errorf("stats = %+v, want 1 subscription and 1 forum subscription", stats)
	}
	if stats.PostedSubmissions != 1 {
		t.Errorf("PostedSubmissions = %d, want 1", stats.PostedSubmissions)
	}
	if stats.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes = %d, want > 0", stats.FileSizeBytes)
	}

	verdict, err := CheckIntegrity(db)
	if err != nil {
		t.Fatalf("CheckIntegrity() error = %v", err)
	}
	if verdict != "ok" {
		t.Errorf("CheckIntegrity() = %q, want ok", verdict)
	}

	if err := Vacuum(db); err != nil {
		t.Errorf("Vacuum() error = %v", err)
	}
}
