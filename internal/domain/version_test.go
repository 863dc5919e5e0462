package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "equal", a: "1.2.3", b: "1.2.3", want: 0},
		{name: "older patch", a: "1.2.2", b: "1.2.3", want: -1},
		{name: "newer major", a: "2.0", b: "1.9.9", want: 1},
		{name: "shorter side zero padded", a: "2.0", b: "2.0.0", want: 0},
		{name: "trailing segment beats missing segment", a: "2.0.1", b: "2.0", want: 1},
		{name: "non-numeric segment treated as zero", a: "1.2.beta", b: "1.2.0", want: 0},
		{name: "prerelease suffix ignored numerically", a: "2.1.0-beta", b: "2.1.0", want: 0},
		{name: "underscore separator", a: "1_5", b: "1_4", want: 1},
		{name: "plus separator", a: "1.0+42", b: "1.0+41", want: 1},
		{name: "no numeric segments falls back to string compare", a: "beta", b: "alpha", want: 1},
		{name: "one side non-numeric falls back to string compare", a: "abc", b: "1.0", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVersions(tt.a, tt.b)
			require.Equal(t, tt.want, normalize(got))
		})
	}
}

func normalize(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestCompareVersionsAntisymmetric(t *testing.T) {
	pairs := [][2]string{
		{"1.0", "2.0"},
		{"1.2.3", "1.2.4"},
		{"2.0", "2.0.0"},
		{"0.9", "1.0.0-rc1"},
		{"build-42", "build-43"},
	}
	for _, p := range pairs {
		require.Equal(t, normalize(CompareVersions(p[0], p[1])), -normalize(CompareVersions(p[1], p[0])),
			"compare(%q,%q) should be antisymmetric", p[0], p[1])
	}
}

func TestCompareVersionsReflexive(t *testing.T) {
	for _, v := range []string{"1.0", "v2", "", "beta", "1.2.3-rc.1+build"} {
		require.Zero(t, CompareVersions(v, v))
	}
}

func TestStripVersionPrefix(t *testing.T) {
	require.Equal(t, "2.0", StripVersionPrefix("v2.0"))
	require.Equal(t, "2.0", StripVersionPrefix("V2.0"))
	require.Equal(t, "2.0", StripVersionPrefix("2.0"))
	require.Equal(t, "", StripVersionPrefix(""))
}

func TestClassifyVersions(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		release   string
		want      InstallStatus
	}{
		{name: "installed older", installed: "1.5", release: "v2.0", want: StatusInstalledOutdated},
		{name: "installed equal", installed: "2.0", release: "v2.0", want: StatusInstalledCurrent},
		{name: "installed newer with extra segment", installed: "2.0.1", release: "v2.0", want: StatusInstalledCurrent},
		{name: "capital V prefix on release", installed: "1.0", release: "V1.0", want: StatusInstalledCurrent},
		{name: "messy tags still classify", installed: "build-42", release: "build-41", want: StatusInstalledCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ClassifyVersions(tt.installed, tt.release))
		})
	}
}
