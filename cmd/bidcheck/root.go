package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/bidrequest-checker/internal/config"
	"github.com/jonathan/bidrequest-checker/internal/observability"
	"github.com/jonathan/bidrequest-checker/internal/rules"
)

var rootCmd = &cobra.Command{
	Use:   "bidcheck",
	Short: "OpenRTB bid request field checker",
	Long: `bidcheck audits OpenRTB bid requests for missing mandatory, recommended
and interesting fields, grades each request from A+ to F and writes an HTML
report together with an annotated copy of the request.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

var (
	configPath string
	rulesPath  string
	verbose    bool
	noColor    bool
)

// Resolved once flags are parsed, before any command runs
var (
	settings config.Config
	logger   = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVarP(&rulesPath, "rules", "r", "", "Path to a custom rule catalog (built-in catalog when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	l, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	settings = cfg
	logger = l
	return nil
}

// loadConfig resolves settings with precedence flags > environment > config file > defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("rules") {
		cfg.RulesPath = rulesPath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Lookup("in") != nil {
		applyScanFlags(cmd, &cfg)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadCatalog(cfg config.Config) (*rules.Catalog, error) {
	catalog, err := rules.LoadOrDefault(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule catalog: %w", err)
	}
	return catalog, nil
}

func newPrinter(cmd *cobra.Command) *observability.Printer {
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if noColor {
		printer.WithoutColor()
	}
	return printer
}
