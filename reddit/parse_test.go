package reddit

import (
	"encoding/json"
	"testing"
)

const postFixture = `{
	"kind": "t3",
	"data": {
		"id": "1abcd2",
		"name": "t3_1abcd2",
		"title": "Gallery of gophers",
		"author": "alice",
		"subreddit": "golang",
		"permalink": "/r/golang/comments/1abcd2/gallery_of_gophers/",
		"url": "https://www.reddit.com/gallery/1abcd2",
		"domain": "reddit.com",
		"selftext": "",
		"link_flair_text": "Show and Tell",
		"created_utc": 1700000042.0,
		"is_self": false,
		"is_video": false,
		"is_gallery": true,
		"over_18": false,
		"stickied": false,
		"removed_by_category": null,
		"media": null,
		"secure_media": null,
		"gallery_data": {"items": [
			{"media_id": "m1", "id": 101},
			{"media_id": "m2", "id": 102}
		]},
		"media_metadata": {
			"m1": {"status": "valid", "e": "Image", "m": "image/jpg", "s": {"x": 1080, "y": 1920, "u": "https://preview.redd.it/m1.jpg?width=1080&amp;s=aa"}},
			"m2": {"status": "valid", "e": "Image", "m": "image/png", "s": {"x": 800, "y": 600, "u": "https://preview.redd.it/m2.png?width=800&amp;s=bb"}}
		},
		"poll_data": {
			"options": [
				{"id": "1", "text": "Yes"},
				{"id": "2", "text": "No", "vote_count": 7}
			],
			"total_vote_count": 12,
			"voting_end_timestamp": 1700604842000.0
		},
		"crosspost_parent_list": [
			{"id": "parent1", "name": "t3_parent1", "title": "Original gophers", "subreddit": "programming", "is_video": true}
		],
		"preview": {
			"enabled": true,
			"images": [{"source": {"url": "https://preview.redd.it/m1.jpg", "width": 1080, "height": 1920}, "resolutions": []}],
			"reddit_video_preview": {"fallback_url": "https://v.redd.it/xyz/DASH_720.mp4?source=fallback", "duration": 14, "is_gif": true}
		}
	}
}`

func TestParsePost(t *testing.T) {
	t.Parallel()

	var thing Thing
	if err := json.Unmarshal([]byte(postFixture), &thing); err != nil {
		t.Fatalf("failed to unmarshal fixture: %v", err)
	}

	post, err := parsePost(&thing)
	if err != nil {
		t.Fatalf("parsePost() error = %v", err)
	}

	if post.ID != "1abcd2" || post.Name != "t3_1abcd2" {
		t.Errorf("unexpected identifiers: id=%q name=%q", post.ID, post.Name)
	}
	if post.LinkFlairText != "Show and Tell" {
		t.Errorf("expected flair 'Show and Tell', got %q", post.LinkFlairText)
	}
	if !post.IsGallery {
		t.Error("expected is_gallery to be set")
	}
	if post.RemovedByCategory != "" {
		t.Errorf("expected empty removed_by_category, got %q", post.RemovedByCategory)
	}

	if post.GalleryData == nil || len(post.GalleryData.Items) != 2 {
		t.Fatalf("expected 2 gallery items, got %+v", post.GalleryData)
	}
	if post.GalleryData.Items[0].MediaID != "m1" {
		t.Errorf("expected first gallery item 'm1', got %q", post.GalleryData.Items[0].MediaID)
	}

	meta, ok := post.MediaMetadata["m2"]
	if !ok || meta == nil {
		t.Fatal("expected media metadata for 'm2'")
	}
	if meta.MimeType != "image/png" || meta.Source == nil || meta.Source.Width != 800 {
		t.Errorf("unexpected metadata for 'm2': %+v", meta)
	}

	if post.PollData == nil || len(post.PollData.Options) != 2 {
		t.Fatalf("expected poll with 2 options, got %+v", post.PollData)
	}
	if post.PollData.Options[0].VoteCount != nil {
		t.Error("expected nil vote count for an open option")
	}
	if post.PollData.Options[1].VoteCount == nil || *post.PollData.Options[1].VoteCount != 7 {
		t.Error("expected vote count 7 for the second option")
	}
	if post.PollData.TotalVoteCount != 12 {
		t.Errorf("expected total vote count 12, got %d", post.PollData.TotalVoteCount)
	}

	parent := post.CrosspostParent()
	if parent == nil {
		t.Fatal("expected crosspost parent")
	}
	if parent.ID != "parent1" || !parent.IsVideo {
		t.Errorf("unexpected crosspost parent: %+v", parent)
	}

	if post.Preview == nil || post.Preview.RedditVideoPreview == nil {
		t.Fatal("expected reddit video preview")
	}
	if got := post.VideoURL(); got != "https://v.redd.it/xyz/DASH_720.mp4" {
		t.Errorf("VideoURL() = %q, want stripped preview fallback", got)
	}
}

func TestParsePostWrongKind(t *testing.T) {
	t.Parallel()

	thing := &Thing{Kind: "t1", Data: json.RawMessage(`{}`)}
	if _, err := parsePost(thing); err == nil {
		t.Error("expected error for non-submission kind")
	}

	if _, err := parsePost(nil); err == nil {
		t.Error("expected error for nil thing")
	}
}

func TestParseListing(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "Listing", "data": {"after": "t3_next", "children": [
		{"kind": "t3", "data": {"id": "a", "name": "t3_a"}},
		{"kind": "t1", "data": {"id": "comment"}},
		{"kind": "t3", "data": {"id": "b", "name": "t3_b"}}
	]}}`

	var thing Thing
	if err := json.Unmarshal([]byte(raw), &thing); err != nil {
		t.Fatalf("failed to unmarshal fixture: %v", err)
	}

	listing, err := parseListing(&thing)
	if err != nil {
		t.Fatalf("parseListing() error = %v", err)
	}
	if listing.After != "t3_next" {
		t.Errorf("expected after 't3_next', got %q", listing.After)
	}

	posts := extractPosts(listing)
	if len(posts) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(posts))
	}
	if posts[0].ID != "a" || posts[1].ID != "b" {
		t.Errorf("unexpected submission order: %q, %q", posts[0].ID, posts[1].ID)
	}
}

func TestParseListingWrongKind(t *testing.T) {
	t.Parallel()

	thing := &Thing{Kind: "t3", Data: json.RawMessage(`{}`)}
	if _, err := parseListing(thing); err == nil {
		t.Error("expected error for non-listing kind")
	}

	if _, err := parseListing(nil); err == nil {
		t.Error("expected error for nil thing")
	}
}
