package cli

import (
	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/ui"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every tracked repository",
	Long: `Remove every tracked repository and cancel all in-flight downloads.
Installed apps are left alone. When sync is configured, the emptied list
is pushed to the remote document.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	repos, err := app.Service.Repos()
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		out.Println("Nothing to clear")
		return nil
	}

	if !clearForce {
		if !ui.CanPrompt() {
			return domain.Errorf(domain.ErrUserCancelled,
				"refusing to clear %d repositories without confirmation (use --force)", len(repos))
		}
		ok, err := ui.NewPrompt().ConfirmDanger("This removes all tracked repositories.")
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.ErrUserCancelled, "clear cancelled")
		}
	}

	if err := app.Service.ClearAll(ctx); err != nil {
		return err
	}

	out.Success("Removed %d repositories", len(repos))
	return nil
}
