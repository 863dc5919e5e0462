package cli

import (
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [url]",
	Short: "Refresh release info and install status",
	Long: `Re-fetch the latest release, repository metadata, and install status.

With a URL argument, refreshes that repository; without one, refreshes every
tracked repository. Network failures keep the previously fetched data.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 1 {
		repo, err := app.Service.RefreshRepo(ctx, args[0])
		if err != nil {
			return err
		}
		if out.IsJSON() {
			return out.JSON(repo)
		}
		out.Success("Refreshed %s", repo.DisplayName())
		out.Status("Status", string(repo.InstallStatus))
		return nil
	}

	if err := app.Service.RefreshAll(ctx); err != nil {
		return err
	}

	repos, err := app.Service.Repos()
	if err != nil {
		return err
	}

	if out.IsJSON() {
		return out.JSON(repos)
	}

	out.Success("Refreshed %d repositories", len(repos))
	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, repoRow(r))
	}
	out.Table(repoHeaders, rows)
	return nil
}
