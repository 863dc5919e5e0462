package sync

import "context"

// RemoteStore is the per-user remote document holding the synced repo list.
// The document carries one string field: the same JSON array the local store
// persists. Implementations must treat a missing document as an empty value,
// not an error.
type RemoteStore interface {
	// Fetch returns the current remote document value, or "" when the
	// user has no document yet
	Fetch(ctx context.Context) (string, error)

	// Push overwrites the remote document with data, creating it if needed
	Push(ctx context.Context, data string) error

	// Listen streams remote document values as they change. The returned
	// channel is closed when ctx is cancelled or the stream fails.
	Listen(ctx context.Context) (<-chan string, error)

	// Close releases any resources held by the remote client
	Close() error
}
