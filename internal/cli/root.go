package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/apkdock/apkdock/internal/config"
	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/ui"
	"github.com/apkdock/apkdock/internal/version"
)

const (
	// DefaultOperationTimeout is the default timeout for operations (5 minutes)
	DefaultOperationTimeout = 5 * time.Minute
)

var (
	// Global flags
	cfgFile        string
	verbose        bool
	jsonOut        bool
	deviceID       string
	nonInteractive bool

	// Shared state
	cfg    *config.Config
	output *ui.Output
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "apkdock",
	Short: "Track GitHub repos that ship Android APKs",
	Long: `apkdock tracks GitHub repositories that publish Android APKs as release
assets and manages installing, updating, and removing those APKs on a
device reached over adb.

The tracked list can be synced across machines through a per-user
Firestore document when a project is configured.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize output handler
		output = ui.NewOutput(verbose, jsonOut)

		// Set non-interactive mode
		ui.SetNonInteractive(nonInteractive)

		// Skip config loading for commands that don't need it
		if !needsConfig(cmd) {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if deviceID != "" {
			cfg.Device = deviceID
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// needsConfig returns true if the command requires configuration
func needsConfig(cmd *cobra.Command) bool {
	// Commands that don't need config
	noConfigCmds := map[string]bool{
		"help":       true,
		"completion": true,
		"version":    true,
	}

	return !noConfigCmds[cmd.Name()]
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		// Print error if output is available
		if output != nil {
			output.Error("%v", err)
		} else {
			// Fallback if output isn't initialized
			ui.NewOutput(false, false).Error("%v", err)
		}

		// Return exit code error
		return domain.WrapWithExitCode(err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.apkdock/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&deviceID, "device", "d", "", "adb device id (default: the single connected device)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "disable interactive prompts (for CI/CD)")

	// Set version template
	rootCmd.SetVersionTemplate("apkdock {{.Version}}\n")

	// Add commands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clearCmd)
}

// GetConfig returns the loaded configuration (for use by subcommands)
func GetConfig() *config.Config {
	return cfg
}

// GetOutput returns the output handler (for use by subcommands)
func GetOutput() *ui.Output {
	return output
}

// ExitWithError prints an error and exits with the appropriate code
func ExitWithError(err error) {
	if output != nil {
		output.Error("%v", err)
	}
	code := domain.GetExitCode(err)
	os.Exit(code)
}

// signalContext returns a context that is cancelled on SIGINT, SIGTERM, or timeout
func signalContext() (context.Context, context.CancelFunc) {
	return signalContextWithTimeout(DefaultOperationTimeout)
}

func signalContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.Background()
	timeoutCancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, timeoutCancel = context.WithTimeout(ctx, timeout)
	}

	ctx, signalCancel := context.WithCancel(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			signalCancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
		// Drain any pending signal to prevent goroutine leak
		select {
		case <-c:
		default:
		}
	}()

	return ctx, func() {
		signalCancel()
		timeoutCancel()
	}
}
