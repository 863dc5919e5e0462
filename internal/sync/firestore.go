package sync

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/apkdock/apkdock/internal/constants"
	"github.com/apkdock/apkdock/internal/domain"
)

// Compile-time assertion that FirestoreStore implements RemoteStore
var _ RemoteStore = (*FirestoreStore)(nil)

// FirestoreStore keeps the synced repo list in one Firestore document per
// user: users/{uid}, field repos_json. One document per user keeps the write
// path a single upsert and the read path a single get.
type FirestoreStore struct {
	client *firestore.Client
	userID string
}

// validateCredentials checks that decoded credentials are valid JSON with a
// recognized service account structure
func validateCredentials(decoded []byte) error {
	var creds map[string]interface{}
	if err := json.Unmarshal(decoded, &creds); err != nil {
		return domain.Errorf(domain.ErrSyncError, "credentials are not valid JSON: %v", err)
	}

	credType, ok := creds["type"].(string)
	if !ok {
		return domain.Errorf(domain.ErrSyncError, "credentials missing 'type' field")
	}

	validTypes := map[string]bool{
		"service_account":              true,
		"authorized_user":              true,
		"external_account":             true,
		"impersonated_service_account": true,
	}
	if !validTypes[credType] {
		return domain.Errorf(domain.ErrSyncError, "unsupported credential type: %s", credType)
	}

	return nil
}

// NewFirestoreStore creates a remote store for the given project and user.
// credentials is an optional base64-encoded service account JSON; when empty,
// application default credentials apply.
func NewFirestoreStore(ctx context.Context, project, credentials, userID string) (*FirestoreStore, error) {
	if project == "" {
		return nil, domain.Errorf(domain.ErrInvalidConfig, "firestore project not configured")
	}
	if userID == "" {
		return nil, domain.Errorf(domain.ErrInvalidConfig, "user id not configured")
	}

	var opts []option.ClientOption
	if credentials != "" {
		decoded, err := base64.StdEncoding.DecodeString(credentials)
		if err != nil {
			return nil, domain.Errorf(domain.ErrSyncError, "failed to decode credentials: %v", err)
		}
		if err := validateCredentials(decoded); err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	client, err := firestore.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, domain.Errorf(domain.ErrSyncError, "failed to create firestore client: %v", err)
	}

	return &FirestoreStore{client: client, userID: userID}, nil
}

func (s *FirestoreStore) doc() *firestore.DocumentRef {
	return s.client.Collection(constants.SyncCollection).Doc(s.userID)
}

// Fetch implements RemoteStore.Fetch
func (s *FirestoreStore) Fetch(ctx context.Context) (string, error) {
	snap, err := s.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", domain.Errorf(domain.ErrSyncError, "failed to fetch sync document: %v", err)
	}
	return fieldValue(snap.Data()), nil
}

// Push implements RemoteStore.Push
func (s *FirestoreStore) Push(ctx context.Context, data string) error {
	_, err := s.doc().Set(ctx, map[string]interface{}{
		constants.SyncField: data,
	})
	if err != nil {
		return domain.Errorf(domain.ErrSyncError, "failed to push sync document: %v", err)
	}
	return nil
}

// Listen implements RemoteStore.Listen
func (s *FirestoreStore) Listen(ctx context.Context) (<-chan string, error) {
	updates := make(chan string, 1)
	snapshots := s.doc().Snapshots(ctx)

	go func() {
		defer close(updates)
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				// Cancellation and stream failures both end the listen;
				// the reconciler treats a closed channel as detach
				return
			}
			if !snap.Exists() {
				continue
			}
			select {
			case updates <- fieldValue(snap.Data()):
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, nil
}

// Close implements RemoteStore.Close
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// fieldValue extracts the repo list field from document data, tolerating a
// missing or mistyped field
func fieldValue(data map[string]interface{}) string {
	if data == nil {
		return ""
	}
	if v, ok := data[constants.SyncField].(string); ok {
		return v
	}
	return ""
}
