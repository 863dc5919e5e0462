package gitremote

import (
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/apkdock/apkdock/internal/domain"
)

// OriginURL resolves the GitHub web URL for the origin remote of the git
// repository containing path. Both https and ssh remote forms normalize to
// the https://github.com/{owner}/{repo} form the tracker stores.
func OriginURL(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return "", domain.Errorf(domain.ErrNotInRepo, "not inside a git repository: %s", path)
		}
		return "", domain.Errorf(domain.ErrGitError, "failed to open repository: %v", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", domain.Errorf(domain.ErrGitError, "no origin remote: %v", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", domain.Errorf(domain.ErrGitError, "origin remote has no URL")
	}

	normalized, ok := NormalizeRemoteURL(urls[0])
	if !ok {
		return "", domain.Errorf(domain.ErrGitError, "origin is not a GitHub remote: %s", urls[0])
	}
	return normalized, nil
}

// NormalizeRemoteURL converts a git remote URL to its GitHub web form.
// Returns false for remotes not hosted on github.com.
func NormalizeRemoteURL(remote string) (string, bool) {
	remote = strings.TrimSpace(remote)

	var path string
	switch {
	case strings.HasPrefix(remote, "git@github.com:"):
		path = strings.TrimPrefix(remote, "git@github.com:")
	case strings.HasPrefix(remote, "ssh://git@github.com/"):
		path = strings.TrimPrefix(remote, "ssh://git@github.com/")
	case strings.HasPrefix(remote, "https://github.com/"):
		path = strings.TrimPrefix(remote, "https://github.com/")
	case strings.HasPrefix(remote, "http://github.com/"):
		path = strings.TrimPrefix(remote, "http://github.com/")
	case strings.HasPrefix(remote, "git://github.com/"):
		path = strings.TrimPrefix(remote, "git://github.com/")
	default:
		return "", false
	}

	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if path == "" || !strings.Contains(path, "/") {
		return "", false
	}

	return "https://github.com/" + path, true
}
