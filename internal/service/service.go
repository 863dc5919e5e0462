package service

import (
	"context"
	gosync "sync"
	"time"

	"github.com/apkdock/apkdock/internal/constants"
	"github.com/apkdock/apkdock/internal/device"
	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/download"
	"github.com/apkdock/apkdock/internal/github"
	"github.com/apkdock/apkdock/internal/store"
	appsync "github.com/apkdock/apkdock/internal/sync"
	"github.com/apkdock/apkdock/internal/ui"
)

// Service orchestrates the tracked-repo lifecycle: release fetches, package
// detection, status classification, downloads, installs, and sync pushes.
// Collaborator failures degrade individual fields instead of failing whole
// operations; only store errors and invalid requests surface to callers.
type Service struct {
	github     github.Client
	registry   device.PackageRegistry
	detector   *device.Detector
	engine     *download.Engine
	manager    *download.Manager
	repos      *store.RepoStore
	reconciler *appsync.Reconciler
	out        *ui.Output

	settleDelay time.Duration

	mu       gosync.Mutex
	progress map[string]progressEntry
	loading  bool
	nextJob  uint64
	subs     []chan struct{}
}

// progressEntry ties a progress record to the job that wrote it, so a
// replaced job's late writes cannot clobber its successor's entry
type progressEntry struct {
	jobID uint64
	p     domain.DownloadProgress
}

// Snapshot is the service state exposed upward: the tracked list, the
// session's recently-viewed list, a loading flag, and active download
// progress keyed by repo URL.
type Snapshot struct {
	Repos    []domain.Repo                      `json:"repos"`
	Recent   []domain.Repo                      `json:"recently_viewed"`
	Loading  bool                               `json:"loading"`
	Progress map[string]domain.DownloadProgress `json:"progress"`
}

// New creates a service. reconciler may be nil when sync is not configured.
func New(gh github.Client, registry device.PackageRegistry, engine *download.Engine,
	repos *store.RepoStore, reconciler *appsync.Reconciler, out *ui.Output) *Service {
	return &Service{
		github:      gh,
		registry:    registry,
		detector:    device.NewDetector(registry),
		engine:      engine,
		manager:     download.NewManager(),
		repos:       repos,
		reconciler:  reconciler,
		out:         out,
		settleDelay: constants.UninstallSettleDelayMs * time.Millisecond,
		progress:    make(map[string]progressEntry),
	}
}

// AddRepo tracks a new repository by URL, enriching it with release info,
// a detected or guessed package name, and an install status before writing.
// Re-adding a tracked URL replaces the old record wholesale.
func (s *Service) AddRepo(ctx context.Context, url string) (*domain.Repo, error) {
	repo := domain.ParseRepoURL(url)
	repo = s.enrich(ctx, repo)

	if err := s.repos.Add(repo); err != nil {
		return nil, err
	}
	s.repos.MarkViewed(repo)
	s.pushLocal(ctx)
	s.notify()
	return &repo, nil
}

// RefreshRepo re-runs the enrichment pipeline for a tracked URL
func (s *Service) RefreshRepo(ctx context.Context, url string) (*domain.Repo, error) {
	current, err := s.repos.Get(url)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.Errorf(domain.ErrRepoNotTracked, "repo not tracked: %s", url)
	}

	updated := s.enrich(ctx, *current)
	if err := s.repos.Update(updated); err != nil {
		return nil, err
	}
	s.repos.MarkViewed(updated)
	s.pushLocal(ctx)
	s.notify()
	return &updated, nil
}

// RefreshAll re-runs enrichment for every tracked repo. Per-repo failures
// are absorbed; the pass always completes.
func (s *Service) RefreshAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	repos, err := s.repos.List()
	if err != nil {
		return err
	}

	for _, repo := range repos {
		updated := s.enrich(ctx, repo)
		if err := s.repos.Update(updated); err != nil {
			s.out.Verbose("refresh write failed for %s: %v", repo.URL, err)
		}
	}

	s.pushLocal(ctx)
	s.notify()
	return nil
}

// DetectInstallStatus recomputes package name and install status for every
// tracked repo from device state alone, skipping all network calls.
func (s *Service) DetectInstallStatus(ctx context.Context) error {
	repos, err := s.repos.List()
	if err != nil {
		return err
	}

	for _, repo := range repos {
		updated := s.classifyLocally(ctx, repo)
		if err := s.repos.Update(updated); err != nil {
			s.out.Verbose("status write failed for %s: %v", repo.URL, err)
		}
	}

	s.notify()
	return nil
}

// RemoveRepo stops tracking a URL, cancelling any in-flight download for it
func (s *Service) RemoveRepo(ctx context.Context, url string) error {
	s.manager.Cancel(url)
	s.dropProgress(url)

	if err := s.repos.Remove(url); err != nil {
		return err
	}
	s.pushLocal(ctx)
	s.notify()
	return nil
}

// ClearAll removes every tracked repo and cancels all downloads
func (s *Service) ClearAll(ctx context.Context) error {
	s.manager.CancelAll()

	s.mu.Lock()
	s.progress = make(map[string]progressEntry)
	s.mu.Unlock()

	if err := s.repos.Clear(); err != nil {
		return err
	}
	s.pushLocal(ctx)
	s.notify()
	return nil
}

// DownloadAndInstall streams the preferred APK of a tracked repo's latest
// release to disk, hands it to the package registry, and recomputes install
// status locally on success. At most one download runs per URL; a second
// call for the same URL cancels and replaces the first. The returned channel
// mirrors progress and closes when the job ends.
func (s *Service) DownloadAndInstall(ctx context.Context, url string) (<-chan domain.DownloadProgress, error) {
	repo, err := s.repos.Get(url)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, domain.Errorf(domain.ErrRepoNotTracked, "repo not tracked: %s", url)
	}
	if repo.LatestRelease == nil {
		return nil, domain.Errorf(domain.ErrNoRelease, "no release fetched for %s", repo.DisplayName())
	}
	apk := repo.LatestRelease.PreferredAPK()
	if apk == nil {
		return nil, domain.Errorf(domain.ErrNoAPKAsset, "release %s of %s has no APK asset",
			repo.LatestRelease.TagName, repo.DisplayName())
	}

	jobCtx, done := s.manager.Start(ctx, url)
	jobID := s.claimProgress(url, domain.DownloadProgress{TotalBytes: apk.Size})

	out := make(chan domain.DownloadProgress, 16)
	snapshot := *repo
	asset := *apk

	go func() {
		defer close(out)
		defer done()

		var last domain.DownloadProgress
		for p := range s.engine.Download(jobCtx, asset.DownloadURL, asset.Name) {
			last = p
			s.updateProgress(url, jobID, p)
			select {
			case out <- p:
			default:
			}
		}

		switch {
		case last.IsComplete:
			s.installDownloaded(jobCtx, snapshot, asset.Name, url, jobID)
		case jobCtx.Err() != nil:
			// Cancelled: drop the entry, emit nothing further
			s.releaseProgress(url, jobID)
		default:
			// Failed: the terminal error record stays until cleared
		}
	}()

	return out, nil
}

func (s *Service) installDownloaded(ctx context.Context, repo domain.Repo, assetName, url string, jobID uint64) {
	path := s.engine.DownloadedAPK(assetName)
	if path == "" {
		s.updateProgress(url, jobID, domain.DownloadProgress{Error: "downloaded file missing"})
		return
	}

	if err := s.registry.Install(ctx, path); err != nil {
		s.updateProgress(url, jobID, domain.DownloadProgress{Error: err.Error()})
		return
	}

	// Re-read device state; the registry, not us, is authoritative for
	// whether the install took
	updated := s.classifyLocally(ctx, repo)
	if err := s.repos.Update(updated); err != nil {
		s.out.Verbose("status write failed for %s: %v", repo.URL, err)
	}
	s.releaseProgress(url, jobID)
	s.notify()
}

// CancelDownload stops the in-flight download for url, if any, and removes
// its progress entry immediately
func (s *Service) CancelDownload(url string) bool {
	cancelled := s.manager.Cancel(url)
	s.dropProgress(url)
	s.notify()
	return cancelled
}

// ClearDownloadProgress removes the progress entry for url, typically after
// the caller has shown a terminal error
func (s *Service) ClearDownloadProgress(url string) {
	s.dropProgress(url)
	s.notify()
}

// Uninstall hands a package to the registry for removal, waits for the
// registry to settle, then recomputes install status for all tracked repos
func (s *Service) Uninstall(ctx context.Context, packageName string) error {
	if err := s.registry.Uninstall(ctx, packageName); err != nil {
		return err
	}

	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.DetectInstallStatus(ctx)
}

// Repos returns the tracked list, newest first
func (s *Service) Repos() ([]domain.Repo, error) {
	return s.repos.List()
}

// Repo returns one tracked repo by URL, or nil
func (s *Service) Repo(url string) (*domain.Repo, error) {
	return s.repos.Get(url)
}

// MarkViewed records a repo in the session's recently-viewed list
func (s *Service) MarkViewed(repo domain.Repo) {
	s.repos.MarkViewed(repo)
	s.notify()
}

// RecentlyViewed returns the session's recently-viewed repos, newest first
func (s *Service) RecentlyViewed() []domain.Repo {
	return s.repos.RecentlyViewed()
}

// ClearRecentlyViewed empties the recently-viewed list
func (s *Service) ClearRecentlyViewed() {
	s.repos.ClearRecentlyViewed()
	s.notify()
}

// State returns a consistent snapshot of the service's observable state
func (s *Service) State() (Snapshot, error) {
	repos, err := s.repos.List()
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	progress := make(map[string]domain.DownloadProgress, len(s.progress))
	for url, e := range s.progress {
		progress[url] = e.p
	}
	loading := s.loading
	s.mu.Unlock()

	return Snapshot{
		Repos:    repos,
		Recent:   s.repos.RecentlyViewed(),
		Loading:  loading,
		Progress: progress,
	}, nil
}

// Progress returns the progress entry for url, if one exists
func (s *Service) Progress(url string) (domain.DownloadProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.progress[url]
	return e.p, ok
}

// Subscribe returns a channel that receives a signal after every state
// change. Slow subscribers miss intermediate signals, never block writers.
func (s *Service) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// enrich runs the full per-repo pipeline: release fetch, metadata fetch,
// package detection, classification. Network failures keep prior values.
func (s *Service) enrich(ctx context.Context, repo domain.Repo) domain.Repo {
	if release, err := s.github.LatestRelease(ctx, repo.Owner, repo.Name); err == nil {
		repo.LatestRelease = release
		repo.APKSizeBytes = release.APKSize()
	} else {
		s.out.Verbose("release fetch failed for %s, keeping prior data: %v", repo.DisplayName(), err)
	}

	if meta, err := s.github.RepoInfo(ctx, repo.Owner, repo.Name); err == nil {
		repo.StargazersCount = meta.StargazersCount
		repo.ForksCount = meta.ForksCount
		repo.WatchersCount = meta.WatchersCount
	} else {
		s.out.Verbose("metadata fetch failed for %s: %v", repo.DisplayName(), err)
	}

	return s.classifyLocally(ctx, repo)
}

// classifyLocally resolves the package name and install status from device
// state only
func (s *Service) classifyLocally(ctx context.Context, repo domain.Repo) domain.Repo {
	if found := s.detector.FindInstalledPackage(ctx, repo.Owner, repo.Name); found != "" {
		repo.PackageName = found
	} else if repo.PackageName == "" {
		repo.PackageName = s.detector.GuessPackageName(ctx, repo.Owner, repo.Name)
	}

	repo.InstallStatus = s.detector.Classify(ctx, repo.LatestRelease, repo.PackageName)
	return repo
}

func (s *Service) pushLocal(ctx context.Context) {
	if s.reconciler != nil {
		s.reconciler.PushLocal(ctx)
	}
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

// claimProgress installs a fresh entry for url owned by a new job and
// returns the job id. Always overwrites: the newest job owns the key.
func (s *Service) claimProgress(url string, p domain.DownloadProgress) uint64 {
	s.mu.Lock()
	s.nextJob++
	id := s.nextJob
	s.progress[url] = progressEntry{jobID: id, p: p}
	s.mu.Unlock()
	s.notify()
	return id
}

// updateProgress writes a record only while the job still owns the key
func (s *Service) updateProgress(url string, jobID uint64, p domain.DownloadProgress) {
	s.mu.Lock()
	if e, ok := s.progress[url]; ok && e.jobID == jobID {
		s.progress[url] = progressEntry{jobID: jobID, p: p}
	}
	s.mu.Unlock()
	s.notify()
}

// releaseProgress removes the key only while the job still owns it
func (s *Service) releaseProgress(url string, jobID uint64) {
	s.mu.Lock()
	if e, ok := s.progress[url]; ok && e.jobID == jobID {
		delete(s.progress, url)
	}
	s.mu.Unlock()
	s.notify()
}

// dropProgress removes the key unconditionally
func (s *Service) dropProgress(url string) {
	s.mu.Lock()
	delete(s.progress, url)
	s.mu.Unlock()
}

func (s *Service) notify() {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
