package device

import (
	"context"

	"github.com/apkdock/apkdock/internal/domain"
)

// PackageRegistry defines the interface to the device's package registry.
// The registry is read-only from this system's perspective: install and
// uninstall are handoffs to the platform, and state is re-queried afterwards
// rather than inferred from the handoff result.
type PackageRegistry interface {
	// ListPackages enumerates the package names installed on the device
	ListPackages(ctx context.Context) ([]string, error)

	// AppInfo returns version info for an installed package.
	// A package that is not installed returns (nil, nil): absence is a
	// legitimate outcome, not a failure.
	AppInfo(ctx context.Context, packageName string) (*domain.InstalledApp, error)

	// Install hands a local APK file to the platform install flow
	Install(ctx context.Context, apkPath string) error

	// Uninstall hands a package name to the platform uninstall flow
	Uninstall(ctx context.Context, packageName string) error
}
