package reddit

import "encoding/json"

const (
	kindListing = "Listing"
	kindLink    = "t3"
)

// Thing is the envelope every Reddit API object arrives in. Kind identifies
// the payload ("Listing", "t3", ...) and Data holds its raw JSON.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// ListingData is one page of a listing endpoint together with the fullnames
// Reddit uses for pagination.
type ListingData struct {
	Before   string   `json:"before"`
	After    string   `json:"after"`
	Children []*Thing `json:"children"`
}

// Pagination controls which slice of a listing to fetch. Reddit paginates by
// fullname, strings like "t3_abc123".
type Pagination struct {
	// Limit caps how many items to return. Reddit's maximum is 100; zero
	// uses Reddit's default page size.
	Limit int

	// After requests items older than the given fullname.
	After string

	// Before requests items newer than the given fullname.
	Before string
}

// PostsRequest describes a request for submissions in a subreddit.
type PostsRequest struct {
	Subreddit string
	Pagination
}

// PostsResponse is one page of submissions plus the fullnames needed to
// request the neighbouring pages.
type PostsResponse struct {
	Posts  []*Post
	After  string
	Before string
}

// Post is a single submission (kind "t3") from a listing.
type Post struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Subreddit     string  `json:"subreddit"`
	Permalink     string  `json:"permalink"`
	URL           string  `json:"url"`
	Domain        string  `json:"domain"`
	SelfText      string  `json:"selftext"`
	PostHint      string  `json:"post_hint"`
	Thumbnail     string  `json:"thumbnail"`
	LinkFlairText string  `json:"link_flair_text"`
	CreatedUTC    float64 `json:"created_utc"`
	IsSelf        bool    `json:"is_self"`
	IsVideo       bool    `json:"is_video"`
	IsGallery     bool    `json:"is_gallery"`
	Over18        bool    `json:"over_18"`
	Stickied      bool    `json:"stickied"`

	// RemovedByCategory is set when the submission was taken down, e.g.
	// "deleted" or "moderator".
	RemovedByCategory string `json:"removed_by_category"`

	Media               *Media                    `json:"media"`
	SecureMedia         *Media                    `json:"secure_media"`
	Preview             *Preview                  `json:"preview"`
	MediaMetadata       map[string]*MediaMetadata `json:"media_metadata"`
	GalleryData         *GalleryData              `json:"gallery_data"`
	PollData            *PollData                 `json:"poll_data"`
	CrosspostParentList []Post                    `json:"crosspost_parent_list"`
}

// Media wraps the media payload of a submission. Reddit-hosted videos appear
// under RedditVideo; embeds from other providers carry only their type here.
type Media struct {
	Type        string       `json:"type"`
	RedditVideo *RedditVideo `json:"reddit_video"`
}

// RedditVideo describes a video hosted on v.redd.it.
type RedditVideo struct {
	FallbackURL       string `json:"fallback_url"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	Duration          int    `json:"duration"`
	IsGif             bool   `json:"is_gif"`
	TranscodingStatus string `json:"transcoding_status"`
}

// Preview carries the preview images Reddit generates for link posts, plus a
// video preview for animated sources.
type Preview struct {
	Images             []PreviewImage `json:"images"`
	RedditVideoPreview *RedditVideo   `json:"reddit_video_preview"`
	Enabled            bool           `json:"enabled"`
}

// PreviewImage is one generated preview with its source and scaled variants.
type PreviewImage struct {
	Source      ImageSource   `json:"source"`
	Resolutions []ImageSource `json:"resolutions"`
}

// ImageSource is a single image variant.
type ImageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MediaMetadata describes one uploaded media item referenced by a gallery.
type MediaMetadata struct {
	Status   string       `json:"status"`
	Type     string       `json:"e"`
	MimeType string       `json:"m"`
	Source   *MediaSource `json:"s"`
}

// MediaSource is the full resolution variant of a media item. Static images
// set URL; animated items set GIF and MP4 instead.
type MediaSource struct {
	URL    string `json:"u"`
	GIF    string `json:"gif"`
	MP4    string `json:"mp4"`
	Width  int    `json:"x"`
	Height int    `json:"y"`
}

// GalleryData lists the gallery entries in the order the author arranged
// them. The media itself is resolved through MediaMetadata.
type GalleryData struct {
	Items []GalleryItem `json:"items"`
}

// GalleryItem is a single gallery entry.
type GalleryItem struct {
	MediaID string `json:"media_id"`
	ID      int    `json:"id"`
}

// PollData is attached to submissions that carry a poll. VotingEndTimestamp
// is in milliseconds.
type PollData struct {
	Options            []PollOption `json:"options"`
	TotalVoteCount     int          `json:"total_vote_count"`
	VotingEndTimestamp float64      `json:"voting_end_timestamp"`
}

// PollOption is a single poll choice. VoteCount is only present once the
// poll has closed.
type PollOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount *int   `json:"vote_count"`
}
