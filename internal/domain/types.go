package domain

import "strings"

// InstallStatus classifies a tracked repo's package relative to its latest release.
type InstallStatus string

const (
	StatusNotInstalled      InstallStatus = "NOT_INSTALLED"
	StatusInstalledOutdated InstallStatus = "INSTALLED_OUTDATED"
	StatusInstalledCurrent  InstallStatus = "INSTALLED_CURRENT"
	StatusUnknown           InstallStatus = "UNKNOWN"
)

// Valid returns true if the status is one of the defined values.
func (s InstallStatus) Valid() bool {
	switch s {
	case StatusNotInstalled, StatusInstalledOutdated, StatusInstalledCurrent, StatusUnknown:
		return true
	}
	return false
}

// Repo is a tracked GitHub repository. URL is the canonical key; at most one
// Repo per URL exists in the store. InstallStatus is a cache of
// (packageName, installed package, latestRelease) and goes stale between refreshes.
type Repo struct {
	// URL is the user-supplied repository URL (canonical key)
	URL string `json:"url"`
	// Name is the repository name derived from URL
	Name string `json:"name"`
	// Owner is the repository owner derived from URL
	Owner string `json:"owner"`
	// AddedAt is the creation time in milliseconds since epoch.
	// Set once at creation and never updated; the sync merge tie-breaker.
	AddedAt int64 `json:"addedAt"`
	// LatestRelease is the last fetched release, if any
	LatestRelease *Release `json:"latestRelease,omitempty"`
	// PackageName is the detected or guessed Android package name
	PackageName string `json:"packageName,omitempty"`
	// InstallStatus is the cached classification (UNKNOWN when absent)
	InstallStatus InstallStatus `json:"installStatus,omitempty"`
	// APKSizeBytes is the preferred asset size, cached for display
	APKSizeBytes int64 `json:"apkSizeBytes,omitempty"`

	StargazersCount int `json:"stargazersCount,omitempty"`
	ForksCount      int `json:"forksCount,omitempty"`
	WatchersCount   int `json:"watchersCount,omitempty"`
}

// DisplayName returns the "owner/name" form
func (r Repo) DisplayName() string {
	return r.Owner + "/" + r.Name
}

// Release is an immutable snapshot of a GitHub release.
// Field names follow the GitHub REST representation; the same encoding is
// persisted locally and in the sync document, so tags must not change.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name,omitempty"`
	Body        string  `json:"body,omitempty"`
	HTMLURL     string  `json:"html_url,omitempty"`
	PublishedAt string  `json:"published_at,omitempty"`
	Assets      []Asset `json:"assets"`
	Prerelease  bool    `json:"prerelease,omitempty"`
	Draft       bool    `json:"draft,omitempty"`
}

// Asset is one file attached to a release
type Asset struct {
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	DownloadCount int    `json:"download_count,omitempty"`
	DownloadURL   string `json:"browser_download_url"`
	ContentType   string `json:"content_type,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// AndroidAssets returns the assets whose name ends in .apk, in release order
func (r *Release) AndroidAssets() []Asset {
	var apks []Asset
	for _, a := range r.Assets {
		if strings.HasSuffix(a.Name, ".apk") {
			apks = append(apks, a)
		}
	}
	return apks
}

// PreferredAPK returns the first android asset whose name contains "universal"
// or "release" (case-insensitive), else the first android asset, else nil.
func (r *Release) PreferredAPK() *Asset {
	apks := r.AndroidAssets()
	for i := range apks {
		name := strings.ToLower(apks[i].Name)
		if strings.Contains(name, "universal") || strings.Contains(name, "release") {
			return &apks[i]
		}
	}
	if len(apks) > 0 {
		return &apks[0]
	}
	return nil
}

// APKSize returns the preferred asset's size, or 0 when the release carries no APK
func (r *Release) APKSize() int64 {
	if apk := r.PreferredAPK(); apk != nil {
		return apk.Size
	}
	return 0
}

// RepoMetadata holds repository metadata from the GitHub repos endpoint
type RepoMetadata struct {
	Name            string    `json:"name"`
	Owner           RepoOwner `json:"owner"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	Description     string    `json:"description,omitempty"`
}

// RepoOwner identifies the owning user or organization
type RepoOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// InstalledApp is a live view of an installed package read from the device
// registry. It is never persisted; its lifetime is the query call.
type InstalledApp struct {
	PackageName string `json:"package_name"`
	VersionName string `json:"version_name"`
	VersionCode int64  `json:"version_code"`
	IsSystemApp bool   `json:"is_system_app"`
}

// DownloadProgress is an ephemeral snapshot of an active download, keyed by
// repo URL in the service progress map. Error persists until explicitly cleared.
type DownloadProgress struct {
	BytesDownloaded int64  `json:"bytes_downloaded"`
	TotalBytes      int64  `json:"total_bytes"`
	IsComplete      bool   `json:"is_complete"`
	Error           string `json:"error,omitempty"`
}

// Percent returns the completion percentage, tolerating an unknown total
func (p DownloadProgress) Percent() int {
	if p.TotalBytes <= 0 {
		return 0
	}
	pct := int(p.BytesDownloaded * 100 / p.TotalBytes)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Failed returns true if the progress record carries a terminal error
func (p DownloadProgress) Failed() bool {
	return p.Error != ""
}
