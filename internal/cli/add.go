package cli

import (
	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/gitremote"
)

var addCmd = &cobra.Command{
	Use:   "add <url | .>",
	Short: "Track a GitHub repository",
	Long: `Track a GitHub repository that publishes Android APKs as release assets.

The argument is a GitHub URL in any common form (https, ssh, with or
without .git). Passing "." resolves the URL from the origin remote of the
current git checkout.

Adding fetches the latest release, guesses the Android package name, and
classifies the install status against the connected device.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	url := args[0]
	if url == "." {
		resolved, err := gitremote.OriginURL(".")
		if err != nil {
			return err
		}
		url = resolved
		out.Verbose("resolved origin remote to %s", url)
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	repo, err := app.Service.AddRepo(ctx, url)
	if err != nil {
		return err
	}

	if out.IsJSON() {
		return out.JSON(repo)
	}

	out.Success("Tracking %s", repo.DisplayName())
	out.Status("Status", string(repo.InstallStatus))
	if repo.LatestRelease != nil {
		out.Status("Latest release", repo.LatestRelease.TagName)
	} else {
		out.Status("Latest release", "none")
	}
	out.Status("Package", repo.PackageName)
	return nil
}
