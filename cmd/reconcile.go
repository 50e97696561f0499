package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/byehanchoi-cmyk/io-xl-web/core/config"
	"github.com/byehanchoi-cmyk/io-xl-web/core/document"
	"github.com/byehanchoi-cmyk/io-xl-web/core/logger"
	"github.com/byehanchoi-cmyk/io-xl-web/core/storage"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	refPath       string
	compPath      string
	runConfigPath string
	refSheet      string
	compSheet     string
	headerRow     int
	outPath       string
)

// reconcileCmd matches two documents and writes the unified result.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match two documents and report differences",
	Long: `Reconcile two tabular documents under the identity column declared in
the run configuration and emit the unified row set plus summary as JSON.

Examples:
  # Match two workbooks with a saved run configuration
  io-xl-web reconcile --ref master.xlsx --comp vendor.xlsx --run-config run.json

  # Select sheets and write the result to a file
  io-xl-web reconcile --ref master.xlsx --comp vendor.xlsx --run-config run.json \
    --ref-sheet "Instrument List" --comp-sheet "Sheet1" --out result.json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&refPath, "ref", "", "Path of the reference document (required)")
	reconcileCmd.Flags().StringVar(&compPath, "comp", "", "Path of the comparison document (required)")
	reconcileCmd.Flags().StringVar(&runConfigPath, "run-config", "", "Path of the run configuration JSON (required)")
	reconcileCmd.Flags().StringVar(&refSheet, "ref-sheet", "", "Sheet name in the reference document (default: first sheet)")
	reconcileCmd.Flags().StringVar(&compSheet, "comp-sheet", "", "Sheet name in the comparison document (default: first sheet)")
	reconcileCmd.Flags().IntVar(&headerRow, "header-row", 1, "1-based header row in both documents")
	reconcileCmd.Flags().StringVar(&outPath, "out", "", "Write the result JSON to this file instead of stdout")
	_ = reconcileCmd.MarkFlagRequired("ref")
	_ = reconcileCmd.MarkFlagRequired("comp")
	_ = reconcileCmd.MarkFlagRequired("run-config")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	runCfg, err := loadRunConfig(runConfigPath)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create document store: %w", err)
	}

	svc := recon.NewService(store, l, models.NewSequenceSource("NEW-"))

	l.Info("Starting reconciliation",
		zap.String("ref", refPath),
		zap.String("comp", compPath))

	result, err := svc.Match(ctx, refPath, compPath,
		document.Options{Sheet: refSheet, HeaderRow: headerRow},
		document.Options{Sheet: compSheet, HeaderRow: headerRow},
		runCfg)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	printMatchSummary(l, result)

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if outPath == "" {
		fmt.Println(string(payload))
		return nil
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	l.Info("Result written", zap.String("path", outPath))
	return nil
}

// loadRunConfig reads the per-run reconciliation configuration JSON.
func loadRunConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}
	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", err)
	}
	return &cfg, nil
}

// printMatchSummary logs the global counts of a match result.
func printMatchSummary(l *zap.Logger, result *recon.MatchResult) {
	s := result.Summary
	l.Info("Reconciliation report",
		zap.Int("total_rows", s.TotalRows),
		zap.Int("both", s.BothRows),
		zap.Int("only_ref", s.OnlyRefRows),
		zap.Int("only_comp", s.OnlyCompRows),
		zap.Int("secondary_matches", s.SecondaryMatches),
	)
}
