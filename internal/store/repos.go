package store

import (
	"sort"
	"sync"

	"github.com/apkdock/apkdock/internal/constants"
	"github.com/apkdock/apkdock/internal/domain"
)

// RepoStore persists the tracked repo list as one JSON array under one key.
// All mutations go through the store's Update transaction, so the list is
// always rewritten as a whole from a consistent snapshot.
//
// The recently-viewed list is deliberately in memory only; it reflects the
// current session and resets on restart.
type RepoStore struct {
	store Store

	recentMu sync.Mutex
	recent   []domain.Repo
}

// NewRepoStore wraps a Store with repo-list semantics
func NewRepoStore(s Store) *RepoStore {
	return &RepoStore{store: s}
}

// List returns the tracked repos sorted by addedAt descending. A missing or
// corrupt value reads as an empty list.
func (rs *RepoStore) List() ([]domain.Repo, error) {
	data, err := rs.store.Get(constants.ReposKey)
	if err != nil {
		return nil, err
	}
	repos := domain.DecodeRepos(data)
	sortByAddedAt(repos)
	return repos, nil
}

// Add inserts a repo, replacing any existing entry with the same URL. The
// URL is the canonical key; re-adding a tracked repo takes the new record
// wholesale.
func (rs *RepoStore) Add(repo domain.Repo) error {
	return rs.mutate(func(repos []domain.Repo) []domain.Repo {
		for i := range repos {
			if repos[i].URL == repo.URL {
				repos[i] = repo
				return repos
			}
		}
		return append(repos, repo)
	})
}

// Update replaces the entry matching repo.URL. An untracked URL is an error.
func (rs *RepoStore) Update(repo domain.Repo) error {
	found := false
	err := rs.mutate(func(repos []domain.Repo) []domain.Repo {
		for i := range repos {
			if repos[i].URL == repo.URL {
				repos[i] = repo
				found = true
				break
			}
		}
		return repos
	})
	if err != nil {
		return err
	}
	if !found {
		return domain.Errorf(domain.ErrRepoNotTracked, "repo not tracked: %s", repo.URL)
	}
	return nil
}

// Remove deletes the entry with the given URL, if present
func (rs *RepoStore) Remove(url string) error {
	return rs.mutate(func(repos []domain.Repo) []domain.Repo {
		out := repos[:0]
		for _, r := range repos {
			if r.URL != url {
				out = append(out, r)
			}
		}
		return out
	})
}

// Get returns the tracked repo with the given URL, or nil
func (rs *RepoStore) Get(url string) (*domain.Repo, error) {
	repos, err := rs.List()
	if err != nil {
		return nil, err
	}
	for i := range repos {
		if repos[i].URL == url {
			return &repos[i], nil
		}
	}
	return nil, nil
}

// ReplaceAll overwrites the whole list in one write. Used by the sync
// reconciler, whose merge output replaces local state wholesale.
func (rs *RepoStore) ReplaceAll(repos []domain.Repo) error {
	data, err := domain.EncodeRepos(repos)
	if err != nil {
		return err
	}
	return rs.store.Set(constants.ReposKey, data)
}

// Clear removes every tracked repo
func (rs *RepoStore) Clear() error {
	return rs.store.Delete(constants.ReposKey)
}

func (rs *RepoStore) mutate(fn func([]domain.Repo) []domain.Repo) error {
	return rs.store.Update(constants.ReposKey, func(current string) (string, error) {
		repos := fn(domain.DecodeRepos(current))
		return domain.EncodeRepos(repos)
	})
}

// MarkViewed records a repo at the front of the recently-viewed list,
// deduplicating by URL and capping the list length.
func (rs *RepoStore) MarkViewed(repo domain.Repo) {
	rs.recentMu.Lock()
	defer rs.recentMu.Unlock()

	out := make([]domain.Repo, 0, len(rs.recent)+1)
	out = append(out, repo)
	for _, r := range rs.recent {
		if r.URL != repo.URL {
			out = append(out, r)
		}
	}
	if len(out) > constants.RecentlyViewedLimit {
		out = out[:constants.RecentlyViewedLimit]
	}
	rs.recent = out
}

// RecentlyViewed returns the session's recently-viewed repos, newest first
func (rs *RepoStore) RecentlyViewed() []domain.Repo {
	rs.recentMu.Lock()
	defer rs.recentMu.Unlock()

	out := make([]domain.Repo, len(rs.recent))
	copy(out, rs.recent)
	return out
}

// ClearRecentlyViewed empties the recently-viewed list
func (rs *RepoStore) ClearRecentlyViewed() {
	rs.recentMu.Lock()
	defer rs.recentMu.Unlock()
	rs.recent = nil
}

func sortByAddedAt(repos []domain.Repo) {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].AddedAt > repos[j].AddedAt
	})
}
