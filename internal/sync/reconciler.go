package sync

import (
	"context"
	gosync "sync"

	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/store"
	"github.com/apkdock/apkdock/internal/ui"
)

// Reconciler keeps the local repo list and the remote sync document
// converged. Sync is best-effort around a local-first store: a dead remote
// degrades to local-only operation and never blocks or fails a session.
type Reconciler struct {
	remote RemoteStore
	repos  *store.RepoStore
	out    *ui.Output

	// OnChange, when set, is called with the merged list after a remote
	// update is applied
	OnChange func([]domain.Repo)

	mu     gosync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReconciler creates a reconciler over the given remote and local stores
func NewReconciler(remote RemoteStore, repos *store.RepoStore, out *ui.Output) *Reconciler {
	return &Reconciler{
		remote: remote,
		repos:  repos,
		out:    out,
	}
}

// SessionStart fetches the remote document, merges it with local state,
// persists and pushes the result, and attaches a listener that re-merges on
// later remote changes. Fetch and push failures are absorbed: the local list
// is authoritative for the session either way.
func (r *Reconciler) SessionStart(ctx context.Context) error {
	remoteData, err := r.remote.Fetch(ctx)
	if err != nil {
		r.out.Verbose("sync fetch failed, continuing with local state: %v", err)
		remoteData = ""
	}

	merged, err := r.mergeAndPersist(domain.DecodeRepos(remoteData))
	if err != nil {
		return err
	}

	r.push(ctx, merged)

	listenCtx, cancel := context.WithCancel(ctx)
	updates, err := r.remote.Listen(listenCtx)
	if err != nil {
		cancel()
		r.out.Verbose("sync listen failed, continuing without live updates: %v", err)
		return nil
	}

	done := make(chan struct{})
	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		for data := range updates {
			merged, err := r.mergeAndPersist(domain.DecodeRepos(data))
			if err != nil {
				r.out.Verbose("sync merge failed: %v", err)
				continue
			}
			if r.OnChange != nil {
				r.OnChange(merged)
			}
		}
	}()

	return nil
}

// SessionEnd detaches the remote listener. Local state is kept as-is; the
// next session's merge will reconcile anything that happened meanwhile.
func (r *Reconciler) SessionEnd() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// PushLocal publishes the current local list to the remote document.
// Called after local mutations so other devices converge promptly.
func (r *Reconciler) PushLocal(ctx context.Context) {
	repos, err := r.repos.List()
	if err != nil {
		r.out.Verbose("sync push skipped, local read failed: %v", err)
		return
	}
	r.push(ctx, repos)
}

func (r *Reconciler) mergeAndPersist(remote []domain.Repo) ([]domain.Repo, error) {
	local, err := r.repos.List()
	if err != nil {
		return nil, err
	}
	merged := MergeRepos(local, remote)
	if err := r.repos.ReplaceAll(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// push is best-effort: failures are logged and swallowed
func (r *Reconciler) push(ctx context.Context, repos []domain.Repo) {
	data, err := domain.EncodeRepos(repos)
	if err != nil {
		r.out.Verbose("sync push skipped, encode failed: %v", err)
		return
	}
	if err := r.remote.Push(ctx, data); err != nil {
		r.out.Verbose("sync push failed: %v", err)
	}
}
