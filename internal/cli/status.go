package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Recompute install status from the device",
	Long: `Recompute the install status of every tracked repository against the
connected device. Only the device is queried; no network calls are made.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Service.DetectInstallStatus(ctx); err != nil {
		return err
	}

	repos, err := app.Service.Repos()
	if err != nil {
		return err
	}

	if out.IsJSON() {
		return out.JSON(repos)
	}

	if len(repos) == 0 {
		out.Println("No repositories tracked")
		return nil
	}

	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, repoRow(r))
	}
	out.Table(repoHeaders, rows)
	return nil
}
