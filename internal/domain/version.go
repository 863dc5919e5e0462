package domain

import (
	"strconv"
	"strings"
)

// versionSeparators splits dotted version strings. Real release tags are
// inconsistent (v2.1, 2.1.0-beta, build-42), so the comparison is deliberately
// lenient instead of strict semver.
func isVersionSeparator(r rune) bool {
	return r == '.' || r == '-' || r == '_' || r == '+'
}

// StripVersionPrefix removes a single leading v or V
func StripVersionPrefix(s string) string {
	if len(s) > 0 && (s[0] == 'v' || s[0] == 'V') {
		return s[1:]
	}
	return s
}

// numericSegments splits a version string and keeps only the segments that
// parse as integers. "2.1.0-beta" yields [2 1 0].
func numericSegments(s string) []int64 {
	var segs []int64
	for _, part := range strings.FieldsFunc(s, isVersionSeparator) {
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			segs = append(segs, n)
		}
	}
	return segs
}

// CompareVersions compares two version strings segment by segment, padding the
// shorter side with zeros. Returns <0 if a is older than b, >0 if newer, 0 if
// equal. When either side yields no numeric segment at all it falls back to a
// lexicographic comparison of the raw strings.
func CompareVersions(a, b string) int {
	aSegs := numericSegments(a)
	bSegs := numericSegments(b)

	if len(aSegs) == 0 || len(bSegs) == 0 {
		return strings.Compare(a, b)
	}

	n := len(aSegs)
	if len(bSegs) > n {
		n = len(bSegs)
	}

	for i := 0; i < n; i++ {
		var av, bv int64
		if i < len(aSegs) {
			av = aSegs[i]
		}
		if i < len(bSegs) {
			bv = bSegs[i]
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

// ClassifyVersions classifies an installed version against a release tag.
// Both sides have a leading v/V stripped before comparison. Installed older
// than the release means outdated; equal or newer means current. Version
// parsing must never crash a refresh, so any panic degrades to UNKNOWN.
func ClassifyVersions(installedVersion, releaseTag string) (status InstallStatus) {
	defer func() {
		if r := recover(); r != nil {
			status = StatusUnknown
		}
	}()

	installed := StripVersionPrefix(installedVersion)
	release := StripVersionPrefix(releaseTag)

	if CompareVersions(installed, release) < 0 {
		return StatusInstalledOutdated
	}
	return StatusInstalledCurrent
}
