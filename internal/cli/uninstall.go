package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/ui"
)

var uninstallForce bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <url | package>",
	Short: "Uninstall an app from the device",
	Long: `Uninstall an app from the device.

The argument is either a tracked repository URL (its detected package is
uninstalled) or a package name directly. After the device settles, install
status is recomputed for every tracked repository.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallForce, "force", "f", false, "skip confirmation")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	packageName := args[0]
	if strings.Contains(packageName, "github.com") {
		repo, err := app.Service.Repo(packageName)
		if err != nil {
			return err
		}
		if repo == nil {
			return domain.Errorf(domain.ErrRepoNotTracked, "repo not tracked: %s", packageName)
		}
		if repo.PackageName == "" {
			return domain.Errorf(domain.ErrInvalidArgs, "no package known for %s", repo.DisplayName())
		}
		packageName = repo.PackageName
	}

	if !uninstallForce && ui.CanPrompt() {
		ok, err := ui.NewPrompt().Confirm("Uninstall "+packageName+"?", false)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.ErrUserCancelled, "uninstall cancelled")
		}
	}

	if err := app.Service.Uninstall(ctx, packageName); err != nil {
		return err
	}

	out.Success("Uninstalled %s", packageName)
	return nil
}
