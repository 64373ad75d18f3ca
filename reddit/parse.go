package reddit

import (
	"encoding/json"
	"fmt"
)

// parseListing extracts a ListingData from a Thing of kind "Listing".
func parseListing(thing *Thing) (*ListingData, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != kindListing {
		return nil, fmt.Errorf("expected Listing, got %q", thing.Kind)
	}

	var listing ListingData
	if err := json.Unmarshal(thing.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse Listing data: %w", err)
	}
	return &listing, nil
}

// parsePost extracts a Post from a Thing of kind "t3".
func parsePost(thing *Thing) (*Post, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != kindLink {
		return nil, fmt.Errorf("expected t3, got %q", thing.Kind)
	}

	var post Post
	if err := json.Unmarshal(thing.Data, &post); err != nil {
		return nil, fmt.Errorf("failed to parse submission data: %w", err)
	}
	return &post, nil
}

// extractPosts collects the submissions from a listing page, skipping any
// children that are not submissions or fail to parse.
func extractPosts(listing *ListingData) []*Post {
	posts := make([]*Post, 0, len(listing.Children))
	for _, child := range listing.Children {
		if child.Kind != kindLink {
			continue
		}
		post, err := parsePost(child)
		if err != nil {
			continue
		}
		posts = append(posts, post)
	}
	return posts
}
