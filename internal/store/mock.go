package store

import "sync"

// Compile-time assertion that MockStore implements Store
var _ Store = (*MockStore)(nil)

// MockStore implements Store in memory for testing
type MockStore struct {
	mu     sync.Mutex
	values map[string]string

	// For error injection
	GetError    error
	SetError    error
	UpdateError error
	DeleteError error
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{values: make(map[string]string)}
}

// Get implements Store.Get
func (m *MockStore) Get(key string) (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// Set implements Store.Set
func (m *MockStore) Set(key, value string) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Update implements Store.Update
func (m *MockStore) Update(key string, fn func(current string) (string, error)) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.values[key])
	if err != nil {
		return err
	}
	m.values[key] = next
	return nil
}

// Delete implements Store.Delete
func (m *MockStore) Delete(key string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
