package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the rule catalog",
	Long: `Shows the rule catalog bid requests are checked against. With --rules the
given catalog is loaded and validated first, so this command also checks a
custom catalog before it is used.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

var rulesYAML bool

func init() {
	rulesCmd.Flags().BoolVar(&rulesYAML, "yaml", false, "Print the catalog as YAML, usable as a starting point for --rules")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	if rulesYAML {
		content, err := catalog.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	newPrinter(cmd).PrintCatalog(catalog)
	return nil
}
