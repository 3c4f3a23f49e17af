package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/bidrequest-checker/internal/scan"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every bid request in a directory",
	Long: `Checks every *.json file of the input directory and writes, for each one,
a folder under the output directory holding its HTML and JSON reports and the
request annotated with placeholders for the missing fields.

The input directory is created when it does not exist.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	addScanFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	scanner, err := scan.New(scanOptions(settings), catalog, scan.WithLogger(logger))
	if err != nil {
		return err
	}

	summary, err := scanner.Run(cmd.Context())
	if summary == nil {
		return err
	}
	newPrinter(cmd).PrintSummary(summary)
	if err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}

	if n := summary.Errors(); n > 0 {
		return fmt.Errorf("%d of %d files could not be processed", n, len(summary.Results))
	}
	return nil
}
