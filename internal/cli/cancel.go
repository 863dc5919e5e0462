package cli

import (
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <url>",
	Short: "Cancel an in-flight download",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

func runCancel(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	out := GetOutput()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Service.CancelDownload(args[0]) {
		out.Success("Download cancelled")
	} else {
		out.Println("No download in flight for that URL")
	}
	return nil
}
