package device

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/apkdock/apkdock/internal/domain"
)

// Compile-time assertion that ADBRegistry implements PackageRegistry
var _ PackageRegistry = (*ADBRegistry)(nil)

// ADBRegistry implements PackageRegistry over the adb binary
type ADBRegistry struct {
	adbPath string
	device  string
}

// NewADBRegistry creates a registry for the given adb binary and device id.
// An empty device id lets adb pick the single connected device.
func NewADBRegistry(adbPath, device string) *ADBRegistry {
	if adbPath == "" {
		adbPath = "adb"
	}
	return &ADBRegistry{adbPath: adbPath, device: device}
}

// args prepends device selection to an adb argument list
func (r *ADBRegistry) args(rest ...string) []string {
	if r.device != "" {
		return append([]string{"-s", r.device}, rest...)
	}
	return rest
}

// ListPackages implements PackageRegistry.ListPackages
func (r *ADBRegistry) ListPackages(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, r.adbPath, r.args("shell", "pm", "list", "packages")...)
	output, err := cmd.Output()
	if err != nil {
		return nil, domain.Errorf(domain.ErrRegistryError, "pm list packages failed: %v", err)
	}

	var packages []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		// Lines look like "package:com.example.app"
		if name, ok := strings.CutPrefix(line, "package:"); ok && name != "" {
			packages = append(packages, name)
		}
	}
	return packages, nil
}

// AppInfo implements PackageRegistry.AppInfo. Version name and code are
// parsed from dumpsys output; a package dumpsys does not know is reported as
// not installed, not as an error.
func (r *ADBRegistry) AppInfo(ctx context.Context, packageName string) (*domain.InstalledApp, error) {
	cmd := exec.CommandContext(ctx, r.adbPath, r.args("shell", "dumpsys", "package", packageName)...)
	output, err := cmd.Output()
	if err != nil {
		return nil, domain.Errorf(domain.ErrRegistryError, "dumpsys package failed: %v", err)
	}

	info := parseDumpsysPackage(string(output), packageName)
	return info, nil
}

// parseDumpsysPackage extracts version fields from dumpsys package output.
// Returns nil when the output carries no version info (package not installed).
func parseDumpsysPackage(output, packageName string) *domain.InstalledApp {
	var versionName string
	var versionCode int64
	var isSystem bool
	found := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "versionName="):
			versionName = strings.TrimPrefix(line, "versionName=")
			found = true
		case strings.HasPrefix(line, "versionCode="):
			// The field may carry trailing info: "versionCode=42 minSdk=21"
			codeStr := strings.TrimPrefix(line, "versionCode=")
			fields := strings.Fields(codeStr)
			if len(fields) > 0 {
				if code, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
					versionCode = code
					found = true
				}
			}
		case strings.HasPrefix(line, "flags=") && strings.Contains(line, "SYSTEM"):
			isSystem = true
		}
	}

	if !found {
		return nil
	}

	return &domain.InstalledApp{
		PackageName: packageName,
		VersionName: versionName,
		VersionCode: versionCode,
		IsSystemApp: isSystem,
	}
}

// Install implements PackageRegistry.Install. -r replaces an existing app,
// which is the update path this tool exists for.
func (r *ADBRegistry) Install(ctx context.Context, apkPath string) error {
	cmd := exec.CommandContext(ctx, r.adbPath, r.args("install", "-r", apkPath)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return domain.Errorf(domain.ErrRegistryError, "adb install failed: %v: %s", err, strings.TrimSpace(string(output)))
	}
	if !strings.Contains(string(output), "Success") {
		return domain.Errorf(domain.ErrRegistryError, "install failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Uninstall implements PackageRegistry.Uninstall
func (r *ADBRegistry) Uninstall(ctx context.Context, packageName string) error {
	cmd := exec.CommandContext(ctx, r.adbPath, r.args("uninstall", packageName)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return domain.Errorf(domain.ErrRegistryError, "adb uninstall failed: %v: %s", err, strings.TrimSpace(string(output)))
	}
	if !strings.Contains(string(output), "Success") {
		return domain.Errorf(domain.ErrRegistryError, "uninstall failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}
