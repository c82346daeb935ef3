package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/facematch/internal/config"
	"github.com/handiism/facematch/internal/facematch"
	"github.com/handiism/facematch/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	endpoint   string
	verbose    bool

	settings *config.Settings
	logger   *zap.Logger
	manager  *facematch.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "facematch",
	Short: "Find the photos a face appears in",
	Long: `facematch copies a target photo and a set of comparison photos into its
image store, sends them to a face verification server and reports which
comparisons show the same person. Matches can be saved as named albums.

For interactive mode, use: facematch-tui`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if endpoint != "" {
			settings.Endpoint = endpoint
		}
		if verbose {
			settings.LogLevel = "debug"
		}

		logger, err = logging.New(settings.LogLevel, settings.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		manager, err = facematch.Open(settings, logger, printEvent)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if manager != nil {
			_ = manager.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to config file (.yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Verify endpoint URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(albumsCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// printEvent writes a manager progress event to stdout.
func printEvent(event facematch.ProgressEvent) {
	if event.Level == facematch.LevelVerbose && !verbose {
		return
	}

	prefix := ""
	switch event.Level {
	case facematch.LevelError:
		prefix = "✗ "
	case facematch.LevelWarning:
		prefix = "! "
	case facematch.LevelSuccess:
		prefix = "✓ "
	case facematch.LevelInfo:
		prefix = "› "
	default:
		prefix = "  "
	}

	fmt.Println(prefix + event.Message)
}
