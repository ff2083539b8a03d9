package llm

import (
	"context"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/discobot/pkg/log"
)

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
)

// logPromptTokens logs the token count of an outgoing prompt at debug level.
// Encoder initialization failures are swallowed: token counting is
// diagnostics only.
func logPromptTokens(ctx context.Context, prompt string) {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("tiktoken encoder unavailable")
			return
		}
		encoder = enc
	})
	if encoder == nil {
		return
	}

	tokens := encoder.Encode(prompt, nil, nil)
	log.FromCtx(ctx).Debug().Int("tokens", len(tokens)).Msg("prompt tokenized")
}
