package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apkdock/apkdock/internal/domain"
)

func TestGeneratePackagePatterns(t *testing.T) {
	patterns := GeneratePackagePatterns("Acme-Corp", "My_Widget")

	// Normalization strips separators and lowercases
	require.Equal(t, "com.acmecorp.mywidget", patterns[0])
	require.Contains(t, patterns, "com.github.acmecorp.mywidget")
	require.Contains(t, patterns, "io.github.acmecorp.mywidget")

	// Bare repo and owner fallbacks come last
	require.Equal(t, "acmecorp", patterns[len(patterns)-1])
	require.Equal(t, "mywidget", patterns[len(patterns)-2])

	// No duplicates
	seen := make(map[string]bool)
	for _, p := range patterns {
		require.False(t, seen[p], "duplicate pattern %q", p)
		seen[p] = true
	}
}

func TestGeneratePackagePatternsEmptyFragments(t *testing.T) {
	// Separator-only names normalize to empty fragments; the list must stay
	// deduplicated and free of empty entries
	patterns := GeneratePackagePatterns("---", "___")
	require.NotEmpty(t, patterns)
	seen := make(map[string]bool)
	for _, p := range patterns {
		require.NotEmpty(t, p)
		require.False(t, seen[p], "duplicate pattern %q", p)
		seen[p] = true
	}
}

func TestGeneratePackagePatternsOwnerEqualsRepo(t *testing.T) {
	patterns := GeneratePackagePatterns("widget", "widget")
	// Bare fallback appears once despite owner == repo
	count := 0
	for _, p := range patterns {
		if p == "widget" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestFindInstalledPackage(t *testing.T) {
	reg := NewMockRegistry()
	reg.AddApp(&domain.InstalledApp{PackageName: "com.acme.widget", VersionName: "1.0"})
	reg.AddApp(&domain.InstalledApp{PackageName: "org.other.thing", VersionName: "3.1"})

	d := NewDetector(reg)

	require.Equal(t, "com.acme.widget", d.FindInstalledPackage(context.Background(), "acme", "widget"))
	require.Empty(t, d.FindInstalledPackage(context.Background(), "nobody", "nothing"))
}

func TestFindInstalledPackageContainsMatch(t *testing.T) {
	reg := NewMockRegistry()
	// The installed name embeds a candidate pattern rather than equalling it
	reg.AddApp(&domain.InstalledApp{PackageName: "com.acme.widget.free", VersionName: "1.0"})

	d := NewDetector(reg)
	require.Equal(t, "com.acme.widget.free", d.FindInstalledPackage(context.Background(), "acme", "widget"))
}

func TestFindInstalledPackageCaseInsensitive(t *testing.T) {
	reg := NewMockRegistry()
	reg.AddApp(&domain.InstalledApp{PackageName: "Com.Acme.Widget", VersionName: "1.0"})

	d := NewDetector(reg)
	require.Equal(t, "Com.Acme.Widget", d.FindInstalledPackage(context.Background(), "Acme", "Widget"))
}

func TestFindInstalledPackageFailsClosed(t *testing.T) {
	reg := NewMockRegistry()
	reg.ListError = errors.New("adb offline")

	d := NewDetector(reg)
	require.Empty(t, d.FindInstalledPackage(context.Background(), "acme", "widget"))
}

func TestGuessPackageName(t *testing.T) {
	reg := NewMockRegistry()
	d := NewDetector(reg)

	// No match falls back to the com.{owner}.{repo} convention
	require.Equal(t, "com.acme.widget", d.GuessPackageName(context.Background(), "Acme", "Widget"))

	// A detector match wins over the convention
	reg.AddApp(&domain.InstalledApp{PackageName: "io.github.acme.widget", VersionName: "1.0"})
	require.Equal(t, "io.github.acme.widget", d.GuessPackageName(context.Background(), "acme", "widget"))
}
