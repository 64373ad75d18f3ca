// Package reddit is a small OAuth2 client for the Reddit data API covering
// what the bot needs: fetching new submissions from subreddits. Requests are
// rate limited locally and back off when Reddit's rate headers demand it.
package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the authenticated Reddit API endpoint.
	DefaultBaseURL = "https://oauth.reddit.com/"

	// DefaultAuthURL is the endpoint used to obtain OAuth2 tokens.
	DefaultAuthURL = "https://www.reddit.com/"

	// DefaultUserAgent identifies the bot per Reddit's API rules.
	DefaultUserAgent = "Reddit2Discord Bot/v1.3 by Trai60"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Config holds the settings for the Reddit client.
type Config struct {
	// Username and Password switch authentication to the password grant.
	// Leave both empty for application-only access.
	Username string
	Password string

	// ClientID and ClientSecret come from Reddit's app preferences and
	// are required.
	ClientID     string
	ClientSecret string

	// UserAgent identifies the bot to Reddit. Defaults to DefaultUserAgent.
	UserAgent string

	// BaseURL and AuthURL default to the public Reddit endpoints and only
	// need changing in tests.
	BaseURL string
	AuthURL string

	// RequestsPerMinute caps steady-state throughput. Defaults to 60.
	RequestsPerMinute float64

	// HTTPClient defaults to a client with DefaultTimeout.
	HTTPClient *http.Client

	// Logger receives debug diagnostics for each request. Leave nil to
	// disable.
	Logger *slog.Logger
}

// Client fetches submissions from the Reddit API. It authenticates on first
// use and is safe for concurrent use.
type Client struct {
	transport *transport
	auth      *authenticator
	config    *Config

	connectOnce sync.Once
	connectErr  error
}

// NewClient validates the configuration and prepares a client. No network
// traffic happens until Connect or the first request.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &ClientError{OriginalErr: fmt.Errorf("config cannot be nil")}
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, &ClientError{OriginalErr: fmt.Errorf("ClientID and ClientSecret are required")}
	}

	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = DefaultAuthURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	auth, err := newAuthenticator(config.HTTPClient, config.Username, config.Password, config.ClientID, config.ClientSecret, config.UserAgent, config.AuthURL)
	if err != nil {
		return nil, err
	}

	return &Client{auth: auth, config: config}, nil
}

// Connect obtains an access token and initializes the transport. It is safe
// to call multiple times; initialization only happens once.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		c.connectErr = c.initialize(ctx)
	})

	return c.connectErr
}

func (c *Client) initialize(ctx context.Context) error {
	if _, err := c.auth.Token(ctx); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	t, err := newTransport(c.config.HTTPClient, c.auth, c.config.BaseURL, c.config.UserAgent, c.config.RequestsPerMinute, c.config.Logger)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	c.transport = t
	return nil
}

func (c *Client) ensureConnected(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}

	if c.transport == nil {
		return &ClientError{OriginalErr: fmt.Errorf("client not connected")}
	}

	return nil
}

// GetNew retrieves the newest submissions in a subreddit, most recent first.
// Provide a nil request to fetch the front page with default pagination.
func (c *Client) GetNew(ctx context.Context, request *PostsRequest) (*PostsResponse, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	subreddit := ""
	pagination := Pagination{}
	if request != nil {
		subreddit = request.Subreddit
		pagination = request.Pagination
	}

	path := "new"
	if subreddit != "" {
		path = "r/" + subreddit + "/new"
	}

	query := url.Values{}
	if pagination.Limit > 0 {
		query.Set("limit", strconv.Itoa(pagination.Limit))
	}
	if pagination.After != "" {
		query.Set("after", pagination.After)
	}
	if pagination.Before != "" {
		query.Set("before", pagination.Before)
	}

	req, err := c.transport.newRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var result Thing
	if err := c.transport.do(req, &result); err != nil {
		return nil, fmt.Errorf("failed to get new posts: %w", err)
	}

	listing, err := parseListing(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse posts: %w", err)
	}

	return &PostsResponse{
		Posts:  extractPosts(listing),
		After:  listing.After,
		Before: listing.Before,
	}, nil
}
