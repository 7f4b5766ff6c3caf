package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasalint/nasalint/formatter"
	"github.com/nasalint/nasalint/internal"
	tt "github.com/nasalint/nasalint/internal/types"
	"github.com/nasalint/nasalint/lint"
)

var (
	ignoreCodes    string
	excludePaths   string
	lintJsonOutput bool
	outPath        string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := lint.New(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if ignoreCodes != "" {
			for _, code := range strings.Split(ignoreCodes, ",") {
				engine.IgnoreCode(strings.TrimSpace(code))
			}
		}

		if excludePaths != "" {
			for _, path := range strings.Split(excludePaths, ",") {
				engine.ExcludePath(strings.TrimSpace(path))
			}
		}

		runNormalLintProcess(ctx, logger, engine, args, lintJsonOutput, outPath)
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreCodes, "ignore", "", "Comma-separated list of diagnostic codes to ignore")
	lintCmd.Flags().StringVar(&excludePaths, "exclude-paths", "", "Comma-separated list of paths to exclude")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output diagnostics in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.Engine, paths []string, isJson bool, jsonOutput string) {
	reports, err := lint.ProcessFiles(ctx, logger, engine, paths)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	printReports(logger, reports, isJson, jsonOutput)

	if len(reports) > 0 {
		os.Exit(1)
	}
}

func printReports(logger *zap.Logger, reports []lint.FileReport, isJson bool, jsonOutput string) {
	if !isJson {
		// text output
		for _, report := range reports {
			sourceCode, err := internal.ReadSourceCode(report.Path)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", report.Path), zap.Error(err))
				continue
			}
			output := formatter.GenerateFormattedReport(report.Path, report.Diagnostics, sourceCode)
			fmt.Println(output)
		}
		return
	}

	// JSON output
	byFile := make(map[string][]tt.Diagnostic, len(reports))
	for _, report := range reports {
		byFile[report.Path] = report.Diagnostics
	}
	d, err := json.Marshal(byFile)
	if err != nil {
		logger.Error("Error marshalling diagnostics to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	f, err := os.Create(jsonOutput)
	if err != nil {
		logger.Error("Error creating JSON output file", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
