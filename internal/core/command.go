package core

import "context"

// Command is a slash command available in the interactive transports.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) (string, error)
}
