package main

import (
	"github.com/sandevgo/discobot/internal/config"
	"github.com/sandevgo/discobot/internal/config/defaults"
	"github.com/sandevgo/discobot/pkg/log"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:           "init",
	Short:         "Initialize the runtime directory with default configuration",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		runtimePath := config.GetRuntimePath()
		written, err := defaults.Install(runtimePath)
		if err != nil {
			return err
		}

		for _, path := range written {
			logger.Info().Str("path", path).Msg("wrote default config")
		}
		if len(written) == 0 {
			logger.Info().Msg("runtime directory already initialized, nothing written")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("You can now run 'disco chat'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
