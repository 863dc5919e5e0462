package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDumpsysPackage(t *testing.T) {
	output := `Packages:
  Package [com.acme.widget] (a1b2c3):
    userId=10123
    versionCode=42 minSdk=21 targetSdk=34
    versionName=2.0.1
    flags=[ HAS_CODE ALLOW_CLEAR_USER_DATA ]
`

	app := parseDumpsysPackage(output, "com.acme.widget")
	require.NotNil(t, app)
	require.Equal(t, "com.acme.widget", app.PackageName)
	require.Equal(t, "2.0.1", app.VersionName)
	require.Equal(t, int64(42), app.VersionCode)
	require.False(t, app.IsSystemApp)
}

func TestParseDumpsysPackageSystemApp(t *testing.T) {
	output := `    versionCode=7
    versionName=1.0
    flags=[ SYSTEM HAS_CODE ]
`

	app := parseDumpsysPackage(output, "com.android.settings")
	require.NotNil(t, app)
	require.True(t, app.IsSystemApp)
}

func TestParseDumpsysPackageNotInstalled(t *testing.T) {
	// dumpsys for an unknown package prints nothing useful
	output := "Unable to find package: com.missing.app\n"
	require.Nil(t, parseDumpsysPackage(output, "com.missing.app"))
}

func TestADBRegistryArgs(t *testing.T) {
	r := NewADBRegistry("adb", "emulator-5554")
	require.Equal(t, []string{"-s", "emulator-5554", "shell", "pm", "list", "packages"},
		r.args("shell", "pm", "list", "packages"))

	r = NewADBRegistry("", "")
	require.Equal(t, "adb", r.adbPath)
	require.Equal(t, []string{"uninstall", "com.acme.widget"}, r.args("uninstall", "com.acme.widget"))
}
