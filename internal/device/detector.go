package device

import (
	"context"
	"strings"
)

// packagePrefixes are the TLD-like prefixes tried when guessing a package
// name for an owner/repo pair, most common first. com.github and io.github
// cover apps published straight from GitHub handles; the long country-code
// tail catches regional publishers.
var packagePrefixes = []string{
	"com",
	"com.github",
	"io.github",
	"org",
	"dev",
	"net",
	"app",
	"me",
	"eu",
	"uk",
	"de",
	"fr",
	"jp",
	"kr",
	"cn",
	"in",
	"br",
	"ru",
	"es",
	"it",
	"ca",
	"au",
	"nz",
	"mx",
	"co",
	"ar",
	"cl",
	"pe",
	"za",
	"ng",
	"eg",
	"ke",
	"tz",
	"et",
	"gh",
	"ci",
	"sn",
	"cm",
	"ug",
	"ao",
	"mz",
	"zm",
	"zw",
	"mw",
	"bw",
	"na",
	"sz",
	"ls",
	"so",
	"sd",
	"ss",
	"er",
	"dj",
	"km",
	"mu",
	"sc",
	"cv",
	"gw",
	"gq",
	"ga",
	"cg",
	"cd",
	"rw",
	"bi",
	"mg",
	"ml",
	"bf",
	"ne",
	"tg",
	"bj",
	"mr",
	"lr",
	"sl",
	"gn",
	"gm",
}

// cleanFragment normalizes an owner or repo name for package-name matching:
// lowercase with separators stripped, since "My-App" ships as "myapp".
func cleanFragment(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

// GeneratePackagePatterns produces candidate package names for an owner/repo
// pair, in insertion order with duplicates removed. Owners or repos that
// normalize to empty fragments still produce a usable (deduplicated) list.
func GeneratePackagePatterns(owner, repoName string) []string {
	cleanRepo := cleanFragment(repoName)
	cleanOwner := cleanFragment(owner)

	seen := make(map[string]bool)
	var patterns []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}

	for _, prefix := range packagePrefixes {
		add(prefix + "." + cleanOwner + "." + cleanRepo)
	}

	// Sometimes the package is just the repo or owner name
	add(cleanRepo)
	add(cleanOwner)

	return patterns
}

// Detector maps an owner/repo pair to the most likely installed package.
// This is a best-effort heuristic with no manifest or server-side mapping
// behind it; consumers must tolerate it being wrong.
type Detector struct {
	registry PackageRegistry
}

// NewDetector creates a detector over the given registry
func NewDetector(registry PackageRegistry) *Detector {
	return &Detector{registry: registry}
}

// FindInstalledPackage returns the first installed package whose name equals
// or contains any candidate pattern (case-insensitive), or "" when nothing
// matches. Enumeration failures fail closed to an empty package list. The
// scan is linear over installed packages x patterns; the installed set is
// small and this only runs on add/refresh, not in any hot path.
func (d *Detector) FindInstalledPackage(ctx context.Context, owner, repoName string) string {
	installed, err := d.registry.ListPackages(ctx)
	if err != nil {
		installed = nil
	}
	patterns := GeneratePackagePatterns(owner, repoName)

	for _, pkg := range installed {
		lower := strings.ToLower(pkg)
		for _, pattern := range patterns {
			if lower == pattern || strings.Contains(lower, pattern) {
				return pkg
			}
		}
	}
	return ""
}

// GuessPackageName returns the detector's match if one exists, else the most
// common convention com.{owner}.{repo}. The result is a best guess, not a
// guarantee.
func (d *Detector) GuessPackageName(ctx context.Context, owner, repoName string) string {
	if found := d.FindInstalledPackage(ctx, owner, repoName); found != "" {
		return found
	}
	return "com." + cleanFragment(owner) + "." + cleanFragment(repoName)
}
