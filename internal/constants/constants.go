package constants

import (
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the default config file name
	ConfigFileName = "config.yaml"

	// AppDockDir is the directory name for apkdock data
	AppDockDir = ".apkdock"

	// DownloadsDir is the subdirectory holding downloaded APKs
	DownloadsDir = "downloads"

	// StoreDir is the subdirectory for the durable key-value store
	StoreDir = "store"

	// ReposKey is the single store key holding the tracked repo list as JSON
	ReposKey = "github_repos_json"

	// ConfigEnvVar is the environment variable to override config path
	ConfigEnvVar = "APKDOCK_CONFIG"

	// GitHubTokenEnvVar is the environment variable holding an API token
	GitHubTokenEnvVar = "APKDOCK_GITHUB_TOKEN"

	// GitHubAPIBase is the GitHub REST API base URL
	GitHubAPIBase = "https://api.github.com"

	// DownloadChunkSize is the copy buffer size for APK downloads (8 KiB)
	DownloadChunkSize = 8 * 1024

	// MaxAPIResponseSize bounds GitHub API response bodies (4 MB)
	MaxAPIResponseSize = 4 * 1024 * 1024

	// RecentlyViewedLimit caps the in-memory recently-viewed list
	RecentlyViewedLimit = 10

	// SyncCollection is the Firestore collection holding per-user documents
	SyncCollection = "users"

	// SyncField is the document field holding the repo list JSON
	SyncField = "repos_json"

	// UninstallSettleDelayMs is how long to wait after an uninstall handoff
	// before re-querying the package registry
	UninstallSettleDelayMs = 1000
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitNotConfigured  = 1
	ExitInvalidConfig  = 2
	ExitInvalidArgs    = 3
	ExitNoRelease      = 4
	ExitGitHubError    = 5
	ExitRegistryError  = 6
	ExitDownloadFailed = 7
	ExitStoreError     = 8
	ExitSyncError      = 9
	ExitGitError       = 10
	ExitNotFound       = 11
	ExitUserCancelled  = 12
	ExitUnknownError   = 99
)

// DefaultConfigDir returns the default configuration directory path
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDockDir)
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFileName)
}

// DefaultDownloadDir returns the default APK download directory
func DefaultDownloadDir() string {
	return filepath.Join(DefaultConfigDir(), DownloadsDir)
}

// DefaultStoreDir returns the default durable store directory
func DefaultStoreDir() string {
	return filepath.Join(DefaultConfigDir(), StoreDir)
}
