package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
)

type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	r := &Router{
		commands: make(map[string]core.Command),
	}
	for _, cmd := range commands {
		r.commands[cmd.Name()] = cmd
	}
	return r
}

// Execute handles slash-prefixed input, returning (output, true) when the
// input was a command and ("", false) when it should reach the orchestrator.
func (r *Router) Execute(ctx context.Context, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	args := parts[1:]

	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	result, err := cmd.Execute(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return result, true
}

func (r *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
