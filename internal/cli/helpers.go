package cli

import (
	"context"

	"github.com/apkdock/apkdock/internal/config"
	"github.com/apkdock/apkdock/internal/device"
	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/download"
	"github.com/apkdock/apkdock/internal/github"
	limitedio "github.com/apkdock/apkdock/internal/io"
	"github.com/apkdock/apkdock/internal/service"
	"github.com/apkdock/apkdock/internal/store"
	appsync "github.com/apkdock/apkdock/internal/sync"
)

// AppContext holds the wired components a command operates on
type AppContext struct {
	Config     *config.Config
	Service    *service.Service
	Reconciler *appsync.Reconciler

	remote appsync.RemoteStore
}

// NewAppContext wires the collaborators from configuration. Sync components
// are only created when a Firestore project is configured; everything else
// works without them.
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	out := GetOutput()

	fileStore, err := store.NewFileStore(cfg.StoreDir)
	if err != nil {
		return nil, err
	}
	repos := store.NewRepoStore(fileStore)

	gh := github.NewHTTPClient(cfg.GitHubToken)
	registry := device.NewADBRegistry(cfg.ADBPath, cfg.Device)
	engine := download.NewEngine(cfg.DownloadDir)

	app := &AppContext{Config: cfg}

	if cfg.SyncEnabled() {
		userID, err := cfg.EnsureUserID()
		if err != nil {
			return nil, err
		}
		fs, err := appsync.NewFirestoreStore(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials, userID)
		if err != nil {
			return nil, err
		}
		app.remote = appsync.NewRetryingRemote(fs, appsync.DefaultRetryConfig())
		app.Reconciler = appsync.NewReconciler(app.remote, repos, out)
	}

	app.Service = service.New(gh, registry, engine, repos, app.Reconciler, out)
	return app, nil
}

// Close releases resources held by the context
func (a *AppContext) Close() error {
	if a.Reconciler != nil {
		a.Reconciler.SessionEnd()
	}
	if a.remote != nil {
		return a.remote.Close()
	}
	return nil
}

// repoRow renders one repo for table output
func repoRow(r domain.Repo) []string {
	tag := "-"
	if r.LatestRelease != nil {
		tag = r.LatestRelease.TagName
	}
	size := "-"
	if r.APKSizeBytes > 0 {
		size = formatBytes(r.APKSizeBytes)
	}
	return []string{r.DisplayName(), tag, string(r.InstallStatus), r.PackageName, size}
}

var repoHeaders = []string{"REPO", "RELEASE", "STATUS", "PACKAGE", "APK SIZE"}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	return limitedio.FormatSize(bytes)
}
