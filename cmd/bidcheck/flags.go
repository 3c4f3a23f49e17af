package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/bidrequest-checker/internal/config"
	"github.com/jonathan/bidrequest-checker/internal/scan"
)

// Directory scan flags, shared by check and watch
var (
	scanInput   string
	scanOutput  string
	scanWorkers int
	scanFormats string
)

func addScanFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	cmd.Flags().StringVarP(&scanInput, "in", "i", defaults.InputDir, "Directory containing *.json bid requests")
	cmd.Flags().StringVarP(&scanOutput, "out", "o", defaults.OutputDir, "Directory receiving the reports")
	cmd.Flags().IntVarP(&scanWorkers, "workers", "w", defaults.Workers, "Number of files checked concurrently")
	cmd.Flags().StringVar(&scanFormats, "format", "html,json", "Report formats to write (html, json)")
}

func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("in") {
		cfg.InputDir = scanInput
	}
	if flags.Changed("out") {
		cfg.OutputDir = scanOutput
	}
	if flags.Changed("workers") {
		cfg.Workers = scanWorkers
	}
	if flags.Changed("format") {
		cfg.Formats = config.SplitFormats(scanFormats)
	}
}

func scanOptions(cfg config.Config) scan.Options {
	return scan.Options{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		WriteHTML: cfg.HasFormat(config.FormatHTML),
		WriteJSON: cfg.HasFormat(config.FormatJSON),
		Debounce:  cfg.Debounce(),
	}
}
