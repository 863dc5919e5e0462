package sync

import (
	"context"
	gosync "sync"
)

// Compile-time assertion that MockRemote implements RemoteStore
var _ RemoteStore = (*MockRemote)(nil)

// MockRemote implements RemoteStore in memory for testing
type MockRemote struct {
	mu   gosync.Mutex
	data string

	// For error injection
	FetchError  error
	PushError   error
	ListenError error

	// Pushed records every value handed to Push, in order
	Pushed []string

	updates chan string
}

// NewMockRemote creates a mock remote seeded with data
func NewMockRemote(data string) *MockRemote {
	return &MockRemote{
		data:    data,
		updates: make(chan string, 8),
	}
}

// Fetch implements RemoteStore.Fetch
func (m *MockRemote) Fetch(ctx context.Context) (string, error) {
	if m.FetchError != nil {
		return "", m.FetchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

// Push implements RemoteStore.Push
func (m *MockRemote) Push(ctx context.Context, data string) error {
	if m.PushError != nil {
		return m.PushError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.Pushed = append(m.Pushed, data)
	return nil
}

// Listen implements RemoteStore.Listen
func (m *MockRemote) Listen(ctx context.Context) (<-chan string, error) {
	if m.ListenError != nil {
		return nil, m.ListenError
	}
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-m.updates:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Emit pushes a value to any active listener
func (m *MockRemote) Emit(data string) {
	m.updates <- data
}

// Data returns the current stored value
func (m *MockRemote) Data() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// PushCount returns the number of pushes recorded
func (m *MockRemote) PushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Pushed)
}

// Close implements RemoteStore.Close
func (m *MockRemote) Close() error {
	return nil
}
