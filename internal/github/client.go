package github

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/apkdock/apkdock/internal/constants"
	"github.com/apkdock/apkdock/internal/domain"
	limitedio "github.com/apkdock/apkdock/internal/io"
)

// Client defines the interface for the GitHub release and metadata source
type Client interface {
	// LatestRelease fetches the latest published release for a repository.
	// A repository with no releases returns ErrNoRelease.
	LatestRelease(ctx context.Context, owner, name string) (*domain.Release, error)

	// RepoInfo fetches star/fork/watcher metadata for a repository
	RepoInfo(ctx context.Context, owner, name string) (*domain.RepoMetadata, error)
}

// Compile-time assertion that HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client against the GitHub REST API
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a GitHub API client. The token is optional;
// anonymous requests work but are rate-limited.
func NewHTTPClient(token string) *HTTPClient {
	return &HTTPClient{
		baseURL: constants.GitHubAPIBase,
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewHTTPClientWithBase creates a client against a custom base URL (for testing)
func NewHTTPClientWithBase(baseURL, token string) *HTTPClient {
	c := NewHTTPClient(token)
	c.baseURL = baseURL
	return c
}

// LatestRelease implements Client.LatestRelease
func (c *HTTPClient) LatestRelease(ctx context.Context, owner, name string) (*domain.Release, error) {
	var release domain.Release
	url := c.baseURL + "/repos/" + owner + "/" + name + "/releases/latest"
	if err := c.getJSON(ctx, url, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// RepoInfo implements Client.RepoInfo
func (c *HTTPClient) RepoInfo(ctx context.Context, owner, name string) (*domain.RepoMetadata, error) {
	var info domain.RepoMetadata
	url := c.baseURL + "/repos/" + owner + "/" + name
	if err := c.getJSON(ctx, url, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// getJSON performs an authenticated GET and decodes the response body.
// Unknown JSON fields are ignored; missing fields keep their zero values.
func (c *HTTPClient) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Errorf(domain.ErrGitHubError, "failed to build request: %v", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Errorf(domain.ErrGitHubError, "request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Errorf(domain.ErrNoRelease, "%s returned 404", url)
	case resp.StatusCode != http.StatusOK:
		return domain.Errorf(domain.ErrGitHubError, "%s returned status %d", url, resp.StatusCode)
	}

	body, err := limitedio.LimitedReadAll(resp.Body, constants.MaxAPIResponseSize, "API response")
	if err != nil {
		return domain.Errorf(domain.ErrGitHubError, "failed to read response: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return domain.Errorf(domain.ErrGitHubError, "failed to decode response: %v", err)
	}

	return nil
}
