// Package main provides the batch evaluation binary.
// It compares ground-truth label documents against prediction documents and
// prints a per-category precision/recall/F1 table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ui-lab/go-detect-eval/batch"
	"github.com/ui-lab/go-detect-eval/config"
	"github.com/ui-lab/go-detect-eval/logger"
	"github.com/ui-lab/go-detect-eval/report"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evaluate <ground-truth-dir> <predictions-dir>",
		Short: "Evaluate UI element detections against ground-truth labels",
		Long: `Evaluate compares machine-predicted bounding boxes against human-drawn
ground-truth boxes and reports per-category precision, recall, and F1.

Both directories hold one JSON label document per image, paired by filename.
A ground-truth file without a prediction counterpart is skipped with a
warning; malformed documents skip their pair without aborting the run.

Examples:
  evaluate ./labels ./predictions
  evaluate ./labels ./predictions --threshold 0.5 --json report.json
  evaluate ./labels ./predictions --categories Button,Input,Radio,Dropdown`,
		Args:         cobra.ExactArgs(2),
		RunE:         runEvaluate,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringP("config", "c", "", "config file path")
	rootCmd.Flags().Float32P("threshold", "t", 0, "IoU matching threshold (overrides config)")
	rootCmd.Flags().StringSlice("categories", nil, "recognized categories (overrides config)")
	rootCmd.Flags().String("json", "", "also write the structured report to this path")
	rootCmd.Flags().Bool("strict", false, "reject documents containing unrecognized tags")
	rootCmd.Flags().Int("workers", 0, "concurrent pair matching (overrides config)")
	rootCmd.Flags().BoolP("verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("evaluate %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	threshold, _ := cmd.Flags().GetFloat32("threshold")
	categories, _ := cmd.Flags().GetStringSlice("categories")
	jsonPath, _ := cmd.Flags().GetString("json")
	strict, _ := cmd.Flags().GetBool("strict")
	workers, _ := cmd.Flags().GetInt("workers")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if threshold > 0 {
		cfg.IoUThreshold = threshold
	}
	if len(categories) > 0 {
		cfg.Categories = categories
	}
	if strict {
		cfg.StrictTags = true
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if jsonPath != "" {
		cfg.ReportPath = jsonPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := cfg.Log.Level
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel, cfg.Log.Format)

	agg, err := batch.Run(args[0], args[1], batch.Options{
		Categories:   cfg.CategorySet(),
		IoUThreshold: cfg.IoUThreshold,
		StrictTags:   cfg.StrictTags,
		Workers:      cfg.Workers,
		Log:          log,
	})
	if err != nil {
		return err
	}
	if agg == nil {
		fmt.Println("No data to evaluate.")
		return nil
	}

	if err := report.WriteTable(os.Stdout, agg); err != nil {
		return err
	}
	if cfg.ReportPath != "" {
		if err := report.WriteJSON(cfg.ReportPath, agg); err != nil {
			return err
		}
		log.Info("report written", "path", cfg.ReportPath)
	}
	return nil
}
