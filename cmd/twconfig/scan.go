package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/twconfig"
	"github.com/yacobolo/twconfig/internal/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan content files for candidate utility classes",
	Long: `Expand the content file patterns, run the extractor registered for each
file's extension and report the candidate classes, their dark-mode
variants and any problems with the content sources.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runScan(cmd)
	},
}

func init() {
	f := scanCmd.Flags()
	f.StringSlice("files", nil, "Content file patterns (overrides content.files)")
	f.String("base-dir", ".", "Directory the content patterns are resolved against")
	f.Int("workers", 0, "Concurrent extractions (0=one per CPU)")
	f.Int("cache-size", 0, "Token cache entries for watch mode (0=default)")
	f.Bool("no-gitignore", false, "Scan files matched by .gitignore")
	f.String("output-format", "", "Output format: text|summary|full|candidates|json")
	f.Bool("strict", false, "Exit 1 on warnings as well as errors (CI mode)")
	f.Bool("watch", false, "Rescan whenever a content file changes")
	f.Duration("debounce", twconfig.DefaultDebounce, "Quiet period before a watch rescan")
	f.Bool("show-info", false, "Show informational issues")
	f.Bool("print-lines", true, "Show config lines with issues")
	f.Bool("print-linter-name", true, "Show (twscan) suffix on issues")
}

// runScan is shared between `twconfig scan` and the bare `twconfig` invocation.
func runScan(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logger.L(ctx)

	desc, err := buildDescriptor()
	if err != nil {
		return err
	}

	scanner, err := twconfig.NewScanner(desc, buildScanConfig())
	if err != nil {
		return err
	}
	log.Debug("descriptor loaded",
		zap.Stringer("dark_mode", desc.DarkMode),
		zap.Strings("files", desc.Content.Files))

	quiet := getBoolWithFallback("quiet", "quiet", false)
	format := twconfig.DetermineOutputFormat(
		getStringWithFallback("output-format", "scan.output-format", ""), quiet)
	reportConfig := buildReportConfig()
	out := cmd.OutOrStdout()

	if getBoolWithFallback("watch", "scan.watch", false) {
		opts := twconfig.WatchOptions{
			Debounce: getDurationWithFallback("debounce", "scan.debounce", twconfig.DefaultDebounce),
		}
		return twconfig.Watch(ctx, scanner, opts, func(result *twconfig.ScanResult, err error) {
			if err != nil {
				log.Error("scan failed", zap.Error(err))
				return
			}
			if !quiet {
				twconfig.WriteOutput(out, result, format, reportConfig)
			}
		})
	}

	result, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if !quiet {
		twconfig.WriteOutput(out, result, format, reportConfig)
	}

	// Errors always fail; strict mode fails on warnings too
	strict := getBoolWithFallback("strict", "scan.strict", false)
	if result.ErrorCount > 0 || (strict && result.WarningCount > 0) {
		return errIssuesFound
	}

	return nil
}
