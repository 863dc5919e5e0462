package github

import (
	"context"
	"sync"

	"github.com/apkdock/apkdock/internal/domain"
)

// Compile-time assertion that MockClient implements Client
var _ Client = (*MockClient)(nil)

// MockClient implements Client for testing
type MockClient struct {
	mu       sync.RWMutex
	releases map[string]*domain.Release
	metadata map[string]*domain.RepoMetadata

	// For error injection
	ReleaseError error
	InfoError    error

	// Call counters
	ReleaseCalls int
	InfoCalls    int
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{
		releases: make(map[string]*domain.Release),
		metadata: make(map[string]*domain.RepoMetadata),
	}
}

// SetRelease registers the latest release for owner/name
func (m *MockClient) SetRelease(owner, name string, release *domain.Release) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[owner+"/"+name] = release
}

// SetRepoInfo registers metadata for owner/name
func (m *MockClient) SetRepoInfo(owner, name string, info *domain.RepoMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[owner+"/"+name] = info
}

// LatestRelease implements Client.LatestRelease
func (m *MockClient) LatestRelease(ctx context.Context, owner, name string) (*domain.Release, error) {
	m.mu.Lock()
	m.ReleaseCalls++
	m.mu.Unlock()

	if m.ReleaseError != nil {
		return nil, m.ReleaseError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	release, ok := m.releases[owner+"/"+name]
	if !ok {
		return nil, domain.Errorf(domain.ErrNoRelease, "no release for %s/%s", owner, name)
	}
	return release, nil
}

// RepoInfo implements Client.RepoInfo
func (m *MockClient) RepoInfo(ctx context.Context, owner, name string) (*domain.RepoMetadata, error) {
	m.mu.Lock()
	m.InfoCalls++
	m.mu.Unlock()

	if m.InfoError != nil {
		return nil, m.InfoError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.metadata[owner+"/"+name]
	if !ok {
		return nil, domain.Errorf(domain.ErrGitHubError, "no metadata for %s/%s", owner, name)
	}
	return info, nil
}
