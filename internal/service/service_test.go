package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apkdock/apkdock/internal/device"
	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/download"
	"github.com/apkdock/apkdock/internal/github"
	"github.com/apkdock/apkdock/internal/store"
	"github.com/apkdock/apkdock/internal/ui"
)

type fixture struct {
	svc      *Service
	github   *github.MockClient
	registry *device.MockRegistry
	repos    *store.RepoStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gh := github.NewMockClient()
	registry := device.NewMockRegistry()
	repos := store.NewRepoStore(store.NewMockStore())
	engine := download.NewEngine(t.TempDir())
	out := ui.NewOutputWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, true, false)

	svc := New(gh, registry, engine, repos, nil, out)
	svc.settleDelay = time.Millisecond
	return &fixture{svc: svc, github: gh, registry: registry, repos: repos}
}

func releaseWithAPK(tag, url string) *domain.Release {
	return &domain.Release{
		TagName: tag,
		Assets: []domain.Asset{
			{Name: "widget-universal.apk", Size: 2048, DownloadURL: url},
		},
	}
}

func TestAddRepoNotInstalled(t *testing.T) {
	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0.0", "https://example.com/widget.apk"))

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	require.Equal(t, "acme", repo.Owner)
	require.Equal(t, "widget", repo.Name)
	require.Equal(t, domain.StatusNotInstalled, repo.InstallStatus)
	require.Equal(t, "com.acme.widget", repo.PackageName)
	require.Equal(t, "v2.0.0", repo.LatestRelease.TagName)
	require.Equal(t, int64(2048), repo.APKSizeBytes)

	// Persisted and in recently-viewed
	listed, err := f.svc.Repos()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, f.svc.RecentlyViewed(), 1)
}

func TestAddRepoDetectsInstalledOutdated(t *testing.T) {
	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0", ""))
	f.registry.AddApp(&domain.InstalledApp{PackageName: "com.acme.widget", VersionName: "1.5"})

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	require.Equal(t, "com.acme.widget", repo.PackageName)
	require.Equal(t, domain.StatusInstalledOutdated, repo.InstallStatus)
}

func TestAddRepoNetworkFailureDegrades(t *testing.T) {
	f := newFixture(t)
	// Mock has no release and no metadata registered, so both fetches fail

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	require.Nil(t, repo.LatestRelease)
	require.Equal(t, domain.StatusNotInstalled, repo.InstallStatus)
}

func TestAddRepoMetadata(t *testing.T) {
	f := newFixture(t)
	f.github.SetRepoInfo("acme", "widget", &domain.RepoMetadata{
		StargazersCount: 42, ForksCount: 7, WatchersCount: 42,
	})

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	require.Equal(t, 42, repo.StargazersCount)
	require.Equal(t, 7, repo.ForksCount)
}

func TestRefreshRepoKeepsStaleReleaseOnFailure(t *testing.T) {
	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v1.0", ""))

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	require.Equal(t, "v1.0", repo.LatestRelease.TagName)

	// Release fetch now fails; the prior release must survive the refresh
	f.github.ReleaseError = domain.Errorf(domain.ErrGitHubError, "rate limited")

	refreshed, err := f.svc.RefreshRepo(context.Background(), repo.URL)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LatestRelease)
	require.Equal(t, "v1.0", refreshed.LatestRelease.TagName)
}

func TestRefreshRepoUntracked(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RefreshRepo(context.Background(), "https://github.com/nobody/nothing")
	require.ErrorIs(t, err, domain.ErrRepoNotTracked)
}

func TestDetectInstallStatusIsLocalOnly(t *testing.T) {
	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0", ""))

	_, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	callsBefore := f.github.ReleaseCalls

	// Install appears between refreshes
	f.registry.AddApp(&domain.InstalledApp{PackageName: "com.acme.widget", VersionName: "2.0"})
	require.NoError(t, f.svc.DetectInstallStatus(context.Background()))

	// No network traffic
	require.Equal(t, callsBefore, f.github.ReleaseCalls)

	repos, err := f.svc.Repos()
	require.NoError(t, err)
	require.Equal(t, domain.StatusInstalledCurrent, repos[0].InstallStatus)
}

func TestRemoveRepo(t *testing.T) {
	f := newFixture(t)
	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveRepo(context.Background(), repo.URL))
	repos, err := f.svc.Repos()
	require.NoError(t, err)
	require.Empty(t, repos)
}

func TestDownloadAndInstall(t *testing.T) {
	payload := make([]byte, 12*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0", server.URL))

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	ch, err := f.svc.DownloadAndInstall(context.Background(), repo.URL)
	require.NoError(t, err)
	for range ch {
	}

	// The registry received the downloaded file
	require.Eventually(t, func() bool {
		return len(f.registry.Installed) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Progress entry removed after successful install
	require.Eventually(t, func() bool {
		_, ok := f.svc.Progress(repo.URL)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDownloadAndInstallRequiresRelease(t *testing.T) {
	f := newFixture(t)
	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	_, err = f.svc.DownloadAndInstall(context.Background(), repo.URL)
	require.ErrorIs(t, err, domain.ErrNoRelease)

	_, err = f.svc.DownloadAndInstall(context.Background(), "https://github.com/nobody/nothing")
	require.ErrorIs(t, err, domain.ErrRepoNotTracked)
}

func TestDownloadAndInstallRequiresAPKAsset(t *testing.T) {
	f := newFixture(t)
	f.github.SetRelease("acme", "widget", &domain.Release{
		TagName: "v2.0",
		Assets:  []domain.Asset{{Name: "source.tar.gz", Size: 10}},
	})

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	_, err = f.svc.DownloadAndInstall(context.Background(), repo.URL)
	require.ErrorIs(t, err, domain.ErrNoAPKAsset)
}

func TestCancelDownloadRemovesProgress(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 16*1024))
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0", server.URL))

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	ch, err := f.svc.DownloadAndInstall(context.Background(), repo.URL)
	require.NoError(t, err)

	// Wait until bytes are flowing, then cancel
	require.Eventually(t, func() bool {
		p, ok := f.svc.Progress(repo.URL)
		return ok && p.BytesDownloaded > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.True(t, f.svc.CancelDownload(repo.URL))

	// The stream drains without a completion or error record
	for p := range ch {
		require.False(t, p.IsComplete)
		require.False(t, p.Failed())
	}

	// The progress key is gone and nothing was handed to the registry
	require.Eventually(t, func() bool {
		_, ok := f.svc.Progress(repo.URL)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
	require.Empty(t, f.registry.Installed)
}

func TestDownloadFailureRecordPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0", server.URL))

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	ch, err := f.svc.DownloadAndInstall(context.Background(), repo.URL)
	require.NoError(t, err)
	for range ch {
	}

	// The terminal error stays until explicitly cleared
	p, ok := f.svc.Progress(repo.URL)
	require.True(t, ok)
	require.True(t, p.Failed())

	f.svc.ClearDownloadProgress(repo.URL)
	_, ok = f.svc.Progress(repo.URL)
	require.False(t, ok)
}

func TestUninstallRefreshesStatuses(t *testing.T) {
	f := newFixture(t)
	f.github.SetRelease("acme", "widget", releaseWithAPK("v2.0", ""))
	f.registry.AddApp(&domain.InstalledApp{PackageName: "com.acme.widget", VersionName: "2.0"})

	repo, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	require.Equal(t, domain.StatusInstalledCurrent, repo.InstallStatus)

	require.NoError(t, f.svc.Uninstall(context.Background(), "com.acme.widget"))
	require.Equal(t, []string{"com.acme.widget"}, f.registry.Uninstalled)

	repos, err := f.svc.Repos()
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotInstalled, repos[0].InstallStatus)
}

func TestStateSnapshot(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	snap, err := f.svc.State()
	require.NoError(t, err)
	require.Len(t, snap.Repos, 1)
	require.Len(t, snap.Recent, 1)
	require.False(t, snap.Loading)
	require.Empty(t, snap.Progress)
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	f := newFixture(t)
	ch := f.svc.Subscribe()

	_, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal received")
	}
}

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddRepo(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)
	_, err = f.svc.AddRepo(context.Background(), "https://github.com/acme/gadget")
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearAll(context.Background()))
	repos, err := f.svc.Repos()
	require.NoError(t, err)
	require.Empty(t, repos)
}
