package device

import (
	"context"

	"github.com/apkdock/apkdock/internal/domain"
)

// InstalledApp looks up version info for a package. Absence and registry
// failures both come back as nil: "not installed" is an expected outcome and
// a dead adb connection must not distinguish itself from one here.
func (d *Detector) InstalledApp(ctx context.Context, packageName string) *domain.InstalledApp {
	if packageName == "" {
		return nil
	}
	app, err := d.registry.AppInfo(ctx, packageName)
	if err != nil {
		return nil
	}
	return app
}

// Classify derives the install status for a release/package pair by querying
// the live registry. No installed package means NOT_INSTALLED; an install
// with no release info is treated as current (optimistic default); otherwise
// the installed version is compared against the release tag.
func (d *Detector) Classify(ctx context.Context, release *domain.Release, packageName string) domain.InstallStatus {
	app := d.InstalledApp(ctx, packageName)
	if app == nil {
		return domain.StatusNotInstalled
	}

	if release == nil {
		return domain.StatusInstalledCurrent
	}

	return domain.ClassifyVersions(app.VersionName, release.TagName)
}
