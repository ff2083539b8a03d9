package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/sandevgo/discobot/internal/transport/cli"
	"github.com/sandevgo/discobot/pkg/log"
	"github.com/sandevgo/discobot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Opens a readline session against the persona orchestrator. Slash commands (/reset, /history, /skills, /last) control the conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting disco chat")

		a := newAssistant(ctx)
		if err := ensureCLIEnabled(a.cfg); err != nil {
			return err
		}

		session, err := cli.NewReadLine(a.orch, a.cfg)
		if err != nil {
			return err
		}

		err = session.Start(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}

		// Flush storage and close the terminal on the way out
		services := append([]srv.Service{session}, a.cleanups...)
		for _, s := range services {
			if shutdownErr := s.Shutdown(ctx); shutdownErr != nil {
				logger.Error().Err(shutdownErr).Msgf("%T failed to shutdown", s)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
