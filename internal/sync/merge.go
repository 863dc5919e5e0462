package sync

import (
	"sort"

	"github.com/apkdock/apkdock/internal/domain"
)

// MergeRepos combines a local and a remote repo list into one, keyed by URL.
// For each URL the entry with the greater addedAt wins; on a tie, an entry
// carrying release info beats one without, and otherwise the first-seen entry
// (local before remote) is kept. The result is sorted by addedAt descending.
//
// The policy is deterministic in its inputs, so both sides of a sync converge
// on the same list regardless of which one merges first.
func MergeRepos(local, remote []domain.Repo) []domain.Repo {
	merged := make(map[string]domain.Repo)
	var order []string

	consider := func(candidate domain.Repo) {
		existing, ok := merged[candidate.URL]
		if !ok {
			merged[candidate.URL] = candidate
			order = append(order, candidate.URL)
			return
		}
		if prefer(candidate, existing) {
			merged[candidate.URL] = candidate
		}
	}

	for _, r := range local {
		consider(r)
	}
	for _, r := range remote {
		consider(r)
	}

	out := make([]domain.Repo, 0, len(order))
	for _, url := range order {
		out = append(out, merged[url])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt > out[j].AddedAt
	})
	return out
}

// prefer reports whether candidate should replace existing for the same URL
func prefer(candidate, existing domain.Repo) bool {
	if candidate.AddedAt != existing.AddedAt {
		return candidate.AddedAt > existing.AddedAt
	}
	// Same age: keep whichever side has fetched a release
	return candidate.LatestRelease != nil && existing.LatestRelease == nil
}
