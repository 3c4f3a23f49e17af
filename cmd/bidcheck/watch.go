package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/bidrequest-checker/internal/scan"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check bid requests as they arrive in a directory",
	Long: `Checks the files already present in the input directory, then keeps
watching it and checks every *.json file that is created or rewritten,
once it has stopped changing. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addScanFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	scanner, err := scan.New(scanOptions(settings), catalog, scan.WithLogger(logger))
	if err != nil {
		return err
	}

	watcher, err := scanner.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("failed to close watcher", zap.Error(err))
		}
	}()

	printer := newPrinter(cmd)

	summary, err := scanner.Run(ctx)
	if err != nil {
		return err
	}
	if len(summary.Results) > 0 {
		printer.PrintSummary(summary)
	}

	return watcher.Run(ctx, func(r scan.FileResult) {
		switch {
		case r.Err != nil:
			logger.Error("failed to check bid request", zap.String("file", r.Source), zap.Error(r.Err))
		case r.ParseFailure != nil:
			printer.PrintParseFailure(*r.ParseFailure)
		default:
			printer.PrintFindings(r.Source, r.Grade, r.Findings, r.AddedFields)
		}
	})
}
