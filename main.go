package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pricelist-summary/config"
	"pricelist-summary/pipeline"
	"pricelist-summary/services"
	"pricelist-summary/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rulesPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "pricelist-summary [input-dir] [output-dir]",
		Short: "Summarise a folder of vehicle price-list PDFs",
		Long: "Scans the input folder for PDF price lists, reads manufacturer, model, year and\n" +
			"validity from the file names and prices from the documents, and writes a JSON\n" +
			"data file, an HTML viewer and a CSV export to the output folder.\n\n" +
			"Defaults: input \"cenniky\", output \"docs\".",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if len(args) > 0 {
				cfg.InputDir = args[0]
			}
			if len(args) > 1 {
				cfg.OutputDir = args[1]
			}
			if cmd.Flags().Changed("rules") {
				cfg.RulesPath = rulesPath
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "TOML file with filename and price extraction rules (default: built-in rules)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details")
	return cmd
}

func run(cfg *config.Config) error {
	logger := utils.NewLogger()
	logger.SetVerbose(cfg.Verbose)

	logger.Info("=== Price list summary starting ===")
	logger.Info("Input: %s | Output: %s", cfg.InputDir, cfg.OutputDir)

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Error("Failed to load rules: %v", err)
		return err
	}

	report, err := pipeline.New(cfg, rules, logger).Run()
	if err != nil {
		logger.Error("Run failed: %v", err)
		return err
	}

	services.PrintReport(os.Stdout, report.Counts, report.Summary)
	fmt.Printf("  Done. Viewer → %s\n\n", filepath.Join(cfg.OutputDir, cfg.ViewerFileName))
	return nil
}
