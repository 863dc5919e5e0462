package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked repositories",
	Long:  `List tracked repositories with their latest release and install status, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
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

	if out.IsJSON() {
		return out.JSON(repos)
	}

	if len(repos) == 0 {
		out.Println("No repositories tracked. Add one with: apkdock add <url>")
		return nil
	}

	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, repoRow(r))
	}
	out.Table(repoHeaders, rows)
	return nil
}
