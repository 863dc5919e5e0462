package domain

import (
	"strings"
	"time"
)

// ParseRepoURL builds a Repo from a user-supplied GitHub URL. Parsing never
// fails: malformed input degrades to "unknown" owner/name placeholders rather
// than rejecting, so a bad URL still produces a tracked entry the user can see
// and remove.
func ParseRepoURL(url string) Repo {
	trimmed := strings.TrimSpace(url)

	clean := trimmed
	clean = strings.TrimPrefix(clean, "https://")
	clean = strings.TrimPrefix(clean, "http://")
	clean = strings.TrimPrefix(clean, "www.")
	clean = strings.TrimSuffix(clean, "/")
	clean = strings.TrimSuffix(clean, ".git")

	// parts[0] is the host, parts[1] the owner, parts[2] the repo name
	parts := strings.Split(clean, "/")
	owner := "unknown"
	name := "unknown"
	if len(parts) >= 2 && parts[1] != "" {
		owner = parts[1]
	}
	if len(parts) >= 3 && parts[2] != "" {
		name = parts[2]
	}

	return Repo{
		URL:           trimmed,
		Owner:         owner,
		Name:          name,
		AddedAt:       time.Now().UnixMilli(),
		InstallStatus: StatusUnknown,
	}
}
