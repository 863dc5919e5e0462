package download

import (
	"context"
	"sync"
)

type job struct {
	cancel context.CancelFunc
}

// Manager enforces at most one active download per key. Starting a download
// for a key that already has one cancels the old job first, so the newest
// request always wins.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*job),
	}
}

// Start registers a new job for key, cancelling any previous one, and returns
// a context for the job. The caller must call the returned done func when the
// job finishes so the slot is released.
func (m *Manager) Start(parent context.Context, key string) (ctx context.Context, done func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.jobs[key]; ok {
		old.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	j := &job{cancel: cancel}
	m.jobs[key] = j

	done = func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Only release the slot if it still belongs to this job; a
		// replacement may have taken it over already
		if m.jobs[key] == j {
			delete(m.jobs, key)
		}
		cancel()
	}
	return ctx, done
}

// Cancel stops the active job for key, if any. Returns true if a job was
// cancelled.
func (m *Manager) Cancel(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[key]
	if !ok {
		return false
	}
	j.cancel()
	delete(m.jobs, key)
	return true
}

// CancelAll stops every active job
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, j := range m.jobs {
		j.cancel()
		delete(m.jobs, key)
	}
}

// Active returns the number of registered jobs
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}
