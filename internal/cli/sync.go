package cli

import (
	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge the tracked list with the remote document",
	Long: `Fetch the per-user remote document, merge it with the local tracked list,
persist the result, and push it back.

Requires firestore_project in the configuration. For each URL present on
both sides, the copy added more recently wins.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	if !cfg.SyncEnabled() {
		return domain.Errorf(domain.ErrNotConfigured,
			"sync is not configured; set firestore_project in %s", cfg.Path())
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Reconciler.SessionStart(ctx); err != nil {
		return err
	}
	app.Reconciler.SessionEnd()

	repos, err := app.Service.Repos()
	if err != nil {
		return err
	}

	if out.IsJSON() {
		return out.JSON(repos)
	}

	out.Success("Synced %d repositories", len(repos))
	return nil
}
