package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jonathan/bidrequest-checker/internal/schemas"
	embedded "github.com/jonathan/bidrequest-checker/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a report or catalog file against its JSON Schema",
	Long:  "Validates a JSON file against one of the embedded schemas (report.schema.json or catalog.schema.json).",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", embedded.Report, "Embedded schema name")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to the JSON file (required)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(embedded.Names(), validateSchema) {
		return fmt.Errorf("unknown schema %q, expected one of %v", validateSchema, embedded.Names())
	}

	content, err := os.ReadFile(validateJSON)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := schemas.ValidateBytes(validateSchema, content); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintln(out, "Validation failed:")
			for _, fe := range validationErr.Errors {
				fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
			}
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintln(out, "Validation passed")
	return nil
}
