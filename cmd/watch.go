package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasalint/nasalint/internal"
	"github.com/nasalint/nasalint/lint"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-lint Python files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		engine, err := lint.New(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if ignoreCodes != "" {
			for _, code := range strings.Split(ignoreCodes, ",") {
				engine.IgnoreCode(strings.TrimSpace(code))
			}
		}

		watcher, err := internal.NewWatcher(engine, logger)
		if err != nil {
			logger.Fatal("Failed to create file watcher", zap.Error(err))
		}
		defer watcher.Stop()

		for _, path := range args {
			if err := watcher.Add(path); err != nil {
				logger.Fatal("Failed to watch path", zap.String("path", path), zap.Error(err))
			}
		}

		watcher.Start()
		logger.Info("watching for changes", zap.Strings("paths", args))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
	},
}

func init() {
	watchCmd.Flags().StringVar(&ignoreCodes, "ignore", "", "Comma-separated list of diagnostic codes to ignore")
}
