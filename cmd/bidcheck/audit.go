package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/bidrequest-checker/internal/audit"
	"github.com/jonathan/bidrequest-checker/internal/parsing"
	"github.com/jonathan/bidrequest-checker/internal/report"
)

var auditCmd = &cobra.Command{
	Use:   "audit FILE",
	Short: "Check a single bid request and print the result",
	Long: `Checks one bid request file and prints its grade and missing fields
without writing any report. Exits with a non-zero status when the request
is invalid JSON or grades F.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

var (
	auditJSON      bool
	auditAnnotated bool
)

var errFailingGrade = errors.New("bid request is missing mandatory fields")

func init() {
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Print the report as JSON")
	auditCmd.Flags().BoolVar(&auditAnnotated, "annotated", false, "Print the annotated bid request")
	auditCmd.MarkFlagsMutuallyExclusive("json", "annotated")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := args[0]
	source := filepath.Base(path)
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read bid request: %w", err)
	}

	catalog, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	doc, err := parsing.Parse(data)
	if err != nil {
		newPrinter(cmd).PrintParseFailure(parsing.ToFailure(source, err))
		return fmt.Errorf("invalid bid request %s: %w", source, err)
	}

	result, err := audit.Check(doc, catalog)
	if err != nil {
		return err
	}
	logger.Debug("checked bid request", zap.String("file", source), zap.String("grade", string(result.Grade)))

	rep := report.New(uuid.NewString(), source, time.Now(), result)

	switch {
	case auditJSON:
		content, err := report.RenderJSON(rep)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(content))
	case auditAnnotated:
		content, err := report.PrettyJSON(rep.AnnotatedRequest)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, content)
	default:
		newPrinter(cmd).PrintFindings(source, result.Grade, result.Findings, result.Annotation.AddedFields)
	}

	if result.Grade.Failing() {
		return errFailingGrade
	}
	return nil
}
