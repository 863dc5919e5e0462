package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/domain"
)

var installCmd = &cobra.Command{
	Use:   "install <url>",
	Short: "Download and install the latest APK",
	Long: `Download the preferred APK asset of the tracked repository's latest
release and install it on the device.

Starting an install while one is already running for the same repository
cancels the old one and starts over. Interrupt with Ctrl-C to cancel.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	// Large APKs on slow links can exceed the default timeout
	ctx, cancel := signalContextWithTimeout(0)
	defer cancel()
	out := GetOutput()
	url := args[0]

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	progress, err := app.Service.DownloadAndInstall(ctx, url)
	if err != nil {
		return err
	}

	var last domain.DownloadProgress
	lastDraw := time.Time{}
	for p := range progress {
		last = p
		// Redraw at most a few times per second; chunk granularity is 8 KiB
		if time.Since(lastDraw) < 100*time.Millisecond && !p.IsComplete && !p.Failed() {
			continue
		}
		lastDraw = time.Now()
		if p.TotalBytes > 0 {
			out.ProgressLine("downloading %3d%% (%s / %s)",
				p.Percent(), formatBytes(p.BytesDownloaded), formatBytes(p.TotalBytes))
		} else {
			out.ProgressLine("downloading %s", formatBytes(p.BytesDownloaded))
		}
	}
	out.Println()

	if last.Failed() {
		return domain.Errorf(domain.ErrDownloadFailed, "%s", last.Error)
	}
	if !last.IsComplete {
		return domain.Errorf(domain.ErrUserCancelled, "download cancelled")
	}

	// Give the async install handoff a moment to surface an error
	for i := 0; i < 50; i++ {
		p, ok := app.Service.Progress(url)
		if !ok {
			out.Success("Installed")
			return nil
		}
		if p.Failed() {
			app.Service.ClearDownloadProgress(url)
			return domain.Errorf(domain.ErrRegistryError, "%s", p.Error)
		}
		time.Sleep(100 * time.Millisecond)
	}
	out.Success("Install handed off to device")
	return nil
}
