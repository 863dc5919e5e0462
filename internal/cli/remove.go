package cli

import (
	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/ui"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Stop tracking a repository",
	Long: `Stop tracking a repository. Any in-flight download for it is cancelled.
The installed app, if any, is left alone; use uninstall for that.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "skip confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()
	url := args[0]

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	repo, err := app.Service.Repo(url)
	if err != nil {
		return err
	}
	if repo == nil {
		return domain.Errorf(domain.ErrRepoNotTracked, "repo not tracked: %s", url)
	}

	if !removeForce && ui.CanPrompt() {
		ok, err := ui.NewPrompt().Confirm("Stop tracking "+repo.DisplayName()+"?", false)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.ErrUserCancelled, "remove cancelled")
		}
	}

	if err := app.Service.RemoveRepo(ctx, url); err != nil {
		return err
	}

	out.Success("Removed %s", repo.DisplayName())
	return nil
}
