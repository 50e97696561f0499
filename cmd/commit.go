package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/core/config"
	"github.com/byehanchoi-cmyk/io-xl-web/core/logger"
	"github.com/byehanchoi-cmyk/io-xl-web/core/storage"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/commit"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the commit command
	commitRefPath  string
	commitCompPath string
	commitCfgPath  string
	rowsPath       string
	commitHeader   int
	dryRunCommit   bool
	yesConfirm     bool
)

// commitCmd writes reviewed changes back into the original documents.
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Write reviewed corrections back into the original documents",
	Long: `Commit locates each reviewed row inside the two original workbooks and
overwrites only the cells whose reviewed value differs from the document.
Rows that cannot be located are collected into a "Needs Confirmation"
sheet inside the document; the run still completes for everything else.

The two documents are committed independently: a failure on one side never
rolls back the other.

Examples:
  # Dry-run (resolve and report, write nothing)
  io-xl-web commit --ref master.xlsx --comp vendor.xlsx \
    --run-config run.json --rows reviewed.json --dry-run

  # Commit with auto-confirm (non-interactive)
  io-xl-web commit --ref master.xlsx --comp vendor.xlsx \
    --run-config run.json --rows reviewed.json --yes`,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVar(&commitRefPath, "ref", "", "Path of the reference document (required)")
	commitCmd.Flags().StringVar(&commitCompPath, "comp", "", "Path of the comparison document (required)")
	commitCmd.Flags().StringVar(&commitCfgPath, "run-config", "", "Path of the run configuration JSON (required)")
	commitCmd.Flags().StringVar(&rowsPath, "rows", "", "Path of the reviewed unified rows JSON (required)")
	commitCmd.Flags().IntVar(&commitHeader, "header-row", 1, "1-based header row in both documents")
	commitCmd.Flags().BoolVar(&dryRunCommit, "dry-run", false, "Resolve and report without writing any document")
	commitCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm document mutation (non-interactive)")
	_ = commitCmd.MarkFlagRequired("ref")
	_ = commitCmd.MarkFlagRequired("comp")
	_ = commitCmd.MarkFlagRequired("run-config")
	_ = commitCmd.MarkFlagRequired("rows")

	RootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	runCfg, err := loadRunConfig(commitCfgPath)
	if err != nil {
		return err
	}

	rows, err := loadRows(rowsPath)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create document store: %w", err)
	}

	// Confirmation: committing mutates foreign-authored documents.
	if !dryRunCommit && !yesConfirm {
		if !confirmDocumentMutation() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	svc := recon.NewService(store, l, models.NewSequenceSource("NEW-"))

	l.Info("Starting commit",
		zap.String("ref", commitRefPath),
		zap.String("comp", commitCompPath),
		zap.Bool("dry_run", dryRunCommit),
		zap.Int("rows", len(rows)))

	opts := commit.Options{HeaderRow: commitHeader, DryRun: dryRunCommit}
	ref, comp, err := svc.Commit(ctx, commitRefPath, commitCompPath, rows, runCfg, opts)
	if err != nil {
		return err
	}

	printCommitResult(l, "reference", ref)
	printCommitResult(l, "comparison", comp)

	if dryRunCommit {
		l.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

// loadRows reads a reviewed unified row generation from JSON.
func loadRows(path string) ([]*models.UnifiedRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	var rows []*models.UnifiedRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}
	return rows, nil
}

// confirmDocumentMutation asks the user to confirm before documents change.
func confirmDocumentMutation() bool {
	fmt.Print("This will modify both workbooks in place. Continue? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// printCommitResult logs one side's commit outcome.
func printCommitResult(l *zap.Logger, side string, res commit.Result) {
	if res.Err != nil {
		l.Error("Commit failed for document", zap.String("side", side), zap.Error(res.Err))
		return
	}
	r := res.Report
	l.Info("Commit report",
		zap.String("side", side),
		zap.Int("updated", r.Updated),
		zap.Int("identical", r.Identical),
		zap.Int("unresolved", r.Unresolved),
		zap.Int("deleted", r.Deleted),
		zap.Int("added", r.Added),
	)
	for _, ex := range r.Exceptions {
		l.Warn("Needs confirmation",
			zap.String("side", side),
			zap.String("key", ex.Key),
			zap.String("status", string(ex.Status)),
			zap.Int("columns", len(ex.Columns)),
		)
	}
}
