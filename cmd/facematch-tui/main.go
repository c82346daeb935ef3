package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/facematch/internal/config"
	"github.com/handiism/facematch/internal/logging"
	"github.com/handiism/facematch/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to config file (.yaml or .json)")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal; log to a file instead.
	if settings.LogFile == "" {
		settings.LogFile = filepath.Join(config.BaseDir(), "facematch.log")
	}
	logger, err := logging.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := tui.Run(settings, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
