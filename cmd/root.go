package cmd

import (
	"fmt"
	"os"

	"github.com/byehanchoi-cmyk/io-xl-web/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "io-xl-web",
	Short: "Spreadsheet reconciliation service",
	Long: `io-xl-web reconciles two independently-maintained tabular extracts
(typically large engineering or instrument lists) under a user-chosen
identity column, supports reviewer annotations, and commits approved
corrections back into the original workbooks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format and debug level so CLI users get readable
		// ISO8601 timestamps instead of the production epoch encoding.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
