package cli

import (
	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker state over a local JSON API",
	Long: `Run a local JSON API over the tracker: list, add, remove, refresh,
install, and download progress. When sync is configured, the remote
listener stays attached for the lifetime of the server, so changes made
on other devices arrive live.

Shut down with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8270", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	// The server runs until interrupted
	ctx, cancel := signalContextWithTimeout(0)
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Reconciler != nil {
		if err := app.Reconciler.SessionStart(ctx); err != nil {
			out.Warn("sync unavailable: %v", err)
		}
	}

	out.Printf("Serving on http://%s\n", serveAddr)
	return api.NewServer(app.Service, out).Serve(ctx, serveAddr)
}
