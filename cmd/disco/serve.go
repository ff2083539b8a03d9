package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/discobot/internal/transport/web"
	"github.com/sandevgo/discobot/pkg/log"
	"github.com/sandevgo/discobot/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Long:  `Starts an HTTP server exposing /chat, /history, /reset and /healthz. Each conversation gets its own isolated memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting disco server")

		a := newAssistant(ctx)

		services := append([]srv.Service{web.NewServer(a.cfg.HTTPAddr, a.factory)}, a.cleanups...)

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("disco has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
