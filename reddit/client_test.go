package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

const tokenFixture = `{"access_token": "test-token", "token_type": "bearer", "expires_in": 3600, "scope": "*"}`

const listingFixture = `{
	"kind": "Listing",
	"data": {
		"after": "t3_def456",
		"before": null,
		"children": [
			{"kind": "t3", "data": {
				"id": "abc123",
				"name": "t3_abc123",
				"title": "First post",
				"author": "alice",
				"subreddit": "golang",
				"permalink": "/r/golang/comments/abc123/first_post/",
				"url": "https://example.com/article",
				"domain": "example.com",
				"created_utc": 1700000000,
				"is_self": false
			}},
			{"kind": "t3", "data": {
				"id": "def456",
				"name": "t3_def456",
				"title": "Second post",
				"author": "bob",
				"subreddit": "golang",
				"permalink": "/r/golang/comments/def456/second_post/",
				"url": "https://i.redd.it/def456.jpg",
				"domain": "i.redd.it",
				"post_hint": "image",
				"over_18": true,
				"created_utc": 1700000100
			}}
		]
	}
}`

// newTestClient wires a client against a test server that serves both the
// token endpoint and the listing endpoint.
func newTestClient(t *testing.T, listing http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tokenFixture)
	})
	mux.HandleFunc("/r/golang/new", listing)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		ClientID:     "id",
		ClientSecret: "secret",
		UserAgent:    "test-agent",
		BaseURL:      server.URL,
		AuthURL:      server.URL,
		HTTPClient:   server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	return client
}

func TestClientGetNew(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("expected user agent 'test-agent', got %q", got)
		}
		fmt.Fprint(w, listingFixture)
	})

	resp, err := client.GetNew(context.Background(), &PostsRequest{Subreddit: "golang"})
	if err != nil {
		t.Fatalf("GetNew() error = %v", err)
	}

	if len(resp.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(resp.Posts))
	}
	if resp.After != "t3_def456" {
		t.Errorf("expected after 't3_def456', got %q", resp.After)
	}

	first := resp.Posts[0]
	if first.ID != "abc123" || first.Name != "t3_abc123" {
		t.Errorf("unexpected identifiers: id=%q name=%q", first.ID, first.Name)
	}
	if first.Title != "First post" || first.Author != "alice" {
		t.Errorf("unexpected post fields: title=%q author=%q", first.Title, first.Author)
	}

	second := resp.Posts[1]
	if !second.Over18 {
		t.Error("expected second post to be marked over_18")
	}
	if second.PostHint != "image" {
		t.Errorf("expected post_hint 'image', got %q", second.PostHint)
	}
}

func TestClientGetNewPagination(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"kind": "Listing", "data": {"children": []}}`)
	})

	req := &PostsRequest{Subreddit: "golang"}
	req.Limit = 25
	req.Before = "t3_zzz999"

	resp, err := client.GetNew(context.Background(), req)
	if err != nil {
		t.Fatalf("GetNew() error = %v", err)
	}
	if len(resp.Posts) != 0 {
		t.Errorf("expected empty page, got %d posts", len(resp.Posts))
	}

	if got := gotQuery.Get("limit"); got != "25" {
		t.Errorf("expected limit '25', got %q", got)
	}
	if got := gotQuery.Get("before"); got != "t3_zzz999" {
		t.Errorf("expected before 't3_zzz999', got %q", got)
	}
	if gotQuery.Has("after") {
		t.Errorf("expected no after param, got %q", gotQuery.Get("after"))
	}
}

func TestClientGetNewAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "Forbidden", "error": 403}`)
	})

	_, err := client.GetNew(context.Background(), &PostsRequest{Subreddit: "golang"})
	if err == nil {
		t.Fatal("expected error for forbidden subreddit, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, apiErr.StatusCode)
	}
}

func TestClientConnectAuthFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_grant"}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(&Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		AuthURL:      server.URL,
		HTTPClient:   server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	err = client.Connect(context.Background())
	if err == nil {
		t.Fatal("expected Connect to fail with bad credentials")
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, authErr.StatusCode)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "missing client id",
			config:  &Config{ClientSecret: "secret"},
			wantErr: true,
		},
		{
			name:    "missing client secret",
			config:  &Config{ClientID: "id"},
			wantErr: true,
		},
		{
			name:   "minimal config",
			config: &Config{ClientID: "id", ClientSecret: "secret"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(tc.config)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	config := &Config{ClientID: "id", ClientSecret: "secret"}
	if _, err := NewClient(config); err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if config.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", config.UserAgent)
	}
	if config.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", config.BaseURL)
	}
	if config.AuthURL != DefaultAuthURL {
		t.Errorf("expected default auth URL, got %q", config.AuthURL)
	}
	if config.HTTPClient == nil {
		t.Error("expected a default HTTP client")
	}
}
