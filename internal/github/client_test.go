package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apkdock/apkdock/internal/domain"
)

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/widget/releases/latest", r.URL.Path)
		require.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Write([]byte(`{
			"tag_name": "v2.0.0",
			"name": "Widget 2.0",
			"prerelease": false,
			"unknown_field": {"ignored": true},
			"assets": [
				{"name": "widget-universal.apk", "size": 4096, "browser_download_url": "https://example.com/widget.apk", "content_type": "application/vnd.android.package-archive"},
				{"name": "widget.aab", "size": 2048, "browser_download_url": "https://example.com/widget.aab"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewHTTPClientWithBase(srv.URL, "")
	release, err := client.LatestRelease(context.Background(), "acme", "widget")
	require.NoError(t, err)
	require.Equal(t, "v2.0.0", release.TagName)
	require.Len(t, release.Assets, 2)

	apk := release.PreferredAPK()
	require.NotNil(t, apk)
	require.Equal(t, "widget-universal.apk", apk.Name)
	require.Equal(t, int64(4096), apk.Size)
}

func TestLatestReleaseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClientWithBase(srv.URL, "")
	_, err := client.LatestRelease(context.Background(), "acme", "widget")
	require.ErrorIs(t, err, domain.ErrNoRelease)
}

func TestLatestReleaseServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClientWithBase(srv.URL, "")
	_, err := client.LatestRelease(context.Background(), "acme", "widget")
	require.ErrorIs(t, err, domain.ErrGitHubError)
}

func TestRepoInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/widget", r.URL.Path)
		w.Write([]byte(`{
			"name": "widget",
			"owner": {"login": "acme", "avatar_url": "https://example.com/a.png"},
			"stargazers_count": 42,
			"forks_count": 7,
			"watchers_count": 42,
			"open_issues_count": 3,
			"description": "a widget"
		}`))
	}))
	defer srv.Close()

	client := NewHTTPClientWithBase(srv.URL, "")
	info, err := client.RepoInfo(context.Background(), "acme", "widget")
	require.NoError(t, err)
	require.Equal(t, "widget", info.Name)
	require.Equal(t, "acme", info.Owner.Login)
	require.Equal(t, 42, info.StargazersCount)
	require.Equal(t, 7, info.ForksCount)
}

func TestTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"tag_name": "v1.0", "assets": []}`))
	}))
	defer srv.Close()

	client := NewHTTPClientWithBase(srv.URL, "tok123")
	_, err := client.LatestRelease(context.Background(), "acme", "widget")
	require.NoError(t, err)
}

func TestMissingFieldsDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.0"}`))
	}))
	defer srv.Close()

	client := NewHTTPClientWithBase(srv.URL, "")
	release, err := client.LatestRelease(context.Background(), "acme", "widget")
	require.NoError(t, err)
	require.Empty(t, release.Assets)
	require.False(t, release.Prerelease)
	require.Nil(t, release.PreferredAPK())
}
