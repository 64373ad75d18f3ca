package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const tokenEndpointPath = "api/v1/access_token"

// tokenExpiryMargin is how long before the reported expiry a cached token is
// treated as stale.
const tokenExpiryMargin = time.Minute

// authenticator retrieves OAuth2 access tokens from Reddit and caches them
// until shortly before they expire.
type authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     *url.URL
	formData     url.Values

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func newAuthenticator(httpClient *http.Client, username, password, clientID, clientSecret, userAgent, authURL string) (*authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to parse auth URL: %w", err)}
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	tokenURL, err := parsed.Parse(tokenEndpointPath)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to resolve token endpoint: %w", err)}
	}

	// Script apps without user credentials use the application-only grant.
	form := url.Values{}
	if username != "" && password != "" {
		form.Set("grant_type", "password")
		form.Set("username", username)
		form.Set("password", password)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	return &authenticator{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     tokenURL,
		formData:     form,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Token returns a cached access token, requesting a fresh one once the
// previous token is within tokenExpiryMargin of expiring.
func (a *authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.tokenExpiry) {
		return a.token, nil
	}

	token, expiresIn, err := a.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	expiry := time.Now().Add(expiresIn)
	if expiresIn > tokenExpiryMargin {
		expiry = expiry.Add(-tokenExpiryMargin)
	}

	a.token = token
	a.tokenExpiry = expiry
	return token, nil
}

func (a *authenticator) fetchToken(ctx context.Context) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL.String(), strings.NewReader(a.formData.Encode()))
	if err != nil {
		return "", 0, &AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", 0, &AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read token response: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", 0, &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	if tok.AccessToken == "" {
		return "", 0, &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	expiresIn := time.Duration(tok.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}

	return tok.AccessToken, expiresIn, nil
}

// AuthError represents an error that occurred during authentication.
type AuthError struct {
	StatusCode int
	// Body contains the raw response body from the server, which may hold
	// more details.
	Body string
	// Err is the underlying error, e.g. a network or JSON parsing error.
	Err error
}

// Error implements the error interface, providing a detailed error message.
func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}

	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}

	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

// Unwrap allows for error chaining with errors.Is and errors.As.
func (e *AuthError) Unwrap() error { return e.Err }
