// Package github fetches a user's public repository list from the GitHub
// REST API. The response body is passed through untransformed — the API
// endpoint that exposes it is a read-only proxy, so there is nothing to gain
// from decoding and re-encoding GitHub's JSON.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/sakif/devconnector/internal/apperror"
)

const defaultBaseURL = "https://api.github.com"

// Client calls the GitHub API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a GitHub API client. If token is non-empty, requests are
// authenticated via an oauth2 static-token client — unauthenticated callers
// share a 60-requests/hour rate limit per IP, authenticated ones get 5000.
func NewClient(token string) *Client {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
}

// Repos returns the user's five most recent public repositories as raw JSON.
//
// Any non-200 upstream status, including 404 for an unknown username, is
// reported as "no such GitHub profile". The caller gets exactly one outcome:
// the body, or an error.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	// GitHub rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "devconnector")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: fetching repos for %s: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NotFound("github profile", username)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading repos response for %s: %w", username, err)
	}

	return json.RawMessage(body), nil
}
