package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasalint/nasalint/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server over stdio",
	Run: func(cmd *cobra.Command, args []string) {
		server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{Logger: logger})

		err := server.Run()
		switch {
		case err == nil, errors.Is(err, lsp.ErrExit):
			return
		case errors.Is(err, lsp.ErrExitWithoutShutdown):
			os.Exit(1)
		default:
			logger.Error("language server failed", zap.Error(err))
			os.Exit(1)
		}
	},
}
