package gitremote

import (
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/require"

	"github.com/apkdock/apkdock/internal/domain"
)

func TestNormalizeRemoteURL(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		want   string
		ok     bool
	}{
		{
			name:   "https with .git",
			remote: "https://github.com/acme/widget.git",
			want:   "https://github.com/acme/widget",
			ok:     true,
		},
		{
			name:   "https without .git",
			remote: "https://github.com/acme/widget",
			want:   "https://github.com/acme/widget",
			ok:     true,
		},
		{
			name:   "ssh scp form",
			remote: "git@github.com:acme/widget.git",
			want:   "https://github.com/acme/widget",
			ok:     true,
		},
		{
			name:   "ssh url form",
			remote: "ssh://git@github.com/acme/widget.git",
			want:   "https://github.com/acme/widget",
			ok:     true,
		},
		{
			name:   "git protocol",
			remote: "git://github.com/acme/widget.git",
			want:   "https://github.com/acme/widget",
			ok:     true,
		},
		{
			name:   "trailing slash",
			remote: "https://github.com/acme/widget/",
			want:   "https://github.com/acme/widget",
			ok:     true,
		},
		{
			name:   "non-github host",
			remote: "https://gitlab.com/acme/widget.git",
			ok:     false,
		},
		{
			name:   "missing repo segment",
			remote: "git@github.com:acme",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeRemoteURL(tt.remote)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestOriginURL(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widget.git"},
	})
	require.NoError(t, err)

	url, err := OriginURL(dir)
	require.NoError(t, err)
	require.Equal(t, "https://github.com/acme/widget", url)
}

func TestOriginURLNotARepo(t *testing.T) {
	_, err := OriginURL(t.TempDir())
	require.ErrorIs(t, err, domain.ErrNotInRepo)
}

func TestOriginURLNoRemote(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = OriginURL(dir)
	require.ErrorIs(t, err, domain.ErrGitError)
}
