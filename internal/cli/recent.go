package cli

import (
	"github.com/spf13/cobra"
)

var recentClear bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently viewed repositories",
	Long: `Show this session's recently viewed repositories, newest first.

The list is in-memory only and resets each run; it is mainly useful through
the serve API, where one process stays alive across operations.`,
	Args: cobra.NoArgs,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().BoolVar(&recentClear, "clear", false, "clear the recently viewed list")
}

func runRecent(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if recentClear {
		app.Service.ClearRecentlyViewed()
		out.Success("Recently viewed list cleared")
		return nil
	}

	recent := app.Service.RecentlyViewed()

	if out.IsJSON() {
		return out.JSON(recent)
	}

	if len(recent) == 0 {
		out.Println("Nothing viewed recently")
		return nil
	}

	rows := make([][]string, 0, len(recent))
	for _, r := range recent {
		rows = append(rows, repoRow(r))
	}
	out.Table(repoHeaders, rows)
	return nil
}
