package llm

import "strings"

const fallbackPreviewLimit = 120

// SimulateResponse is the deterministic offline fallback: it echoes a
// truncated summary of the prompt (its last non-empty line).
func SimulateResponse(prompt string) string {
	var summary string
	for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			summary = line
		}
	}

	runes := []rune(summary)
	if len(runes) > fallbackPreviewLimit {
		summary = string(runes[:fallbackPreviewLimit])
	}
	return "[Simulated response based on prompt: " + summary + "]"
}
