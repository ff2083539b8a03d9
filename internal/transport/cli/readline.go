package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/discobot/internal/config"
	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/internal/service/command"
	"github.com/sandevgo/discobot/internal/service/orchestrator"
	"github.com/sandevgo/discobot/internal/service/ui"
	"github.com/sandevgo/discobot/pkg/log"
)

type ReadLine struct {
	cfg    *config.AppConfig
	orch   *orchestrator.Orchestrator
	router *command.Router
	rl     *readline.Instance
}

func NewReadLine(orch *orchestrator.Orchestrator, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	router := command.New([]core.Command{
		command.NewResetCommand(orch),
		command.NewHistoryCommand(orch),
		command.NewSkillsCommand(orch),
		command.NewLastCommand(orch),
	})

	return &ReadLine{
		cfg:    cfg,
		orch:   orch,
		router: router,
		rl:     rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit, '/help' for commands.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}
		if line == "/help" {
			r.printHelp()
			continue
		}

		if out, handled := r.router.Execute(ctx, line); handled {
			fmt.Fprintf(r.rl.Stdout(), "%s\n", out)
			continue
		}

		result, err := r.orch.ProcessUserInput(ctx, line)
		if err != nil {
			if errors.Is(err, orchestrator.ErrEmptyInput) {
				continue
			}
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(r.rl.Stdout(), "%s %s\n",
			ui.SkillTagStyle.Render("["+result.Skill+"]"), result.Reply)
	}
}

func (r *ReadLine) printHelp() {
	fmt.Fprintln(r.rl.Stdout(), "Commands:")
	for _, cmd := range r.router.ListCommands() {
		fmt.Fprintf(r.rl.Stdout(), "  /%-10s %s\n", cmd.Name(), cmd.Description())
	}
	fmt.Fprintln(r.rl.Stdout(), "  /help       Show this help")
	fmt.Fprintln(r.rl.Stdout(), "  exit        Quit the chat")
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
