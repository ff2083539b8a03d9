package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/discobot/internal/service/ui"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newAssistant(ctx)
		defer func() {
			for _, s := range a.cleanups {
				_ = s.Shutdown(ctx)
			}
		}()

		result, err := a.orch.ProcessUserInput(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", ui.SkillTagStyle.Render("["+result.Skill+"]"), result.Reply)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
