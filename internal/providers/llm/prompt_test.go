package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/discobot/internal/core"
)

func TestFormatDialogue(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	records := []core.MemoryRecord{
		{Role: core.RoleUser, Content: "Where do we start?", Timestamp: ts},
		{
			Role:      core.RoleAssistant,
			Content:   "With the facts.",
			Timestamp: ts.Add(time.Second),
			Metadata:  map[string]any{"skill": "logic"},
		},
	}

	got := FormatDialogue(records)
	want := "[2026-01-02 15:04:05] user: Where do we start?\n" +
		"[2026-01-02 15:04:06] assistant (logic): With the facts."
	if got != want {
		t.Errorf("FormatDialogue() = %q, want %q", got, want)
	}
}

func TestFormatDialogue_Empty(t *testing.T) {
	if got := FormatDialogue(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFormatScores_Deterministic(t *testing.T) {
	scores := map[string]float64{"logic": 2, "drama": 1, "empathy": 1.5}

	want := "{drama=1.00, empathy=1.50, logic=2.00}"
	for i := 0; i < 10; i++ {
		if got := FormatScores(scores); got != want {
			t.Fatalf("FormatScores() = %q, want %q", got, want)
		}
	}
}

func TestFormatOrchestratorPrompt_DefaultsLastSkill(t *testing.T) {
	prompt := FormatOrchestratorPrompt("dialogue", "input", "skills", "", "{}", "memories")
	if !strings.Contains(prompt, "Last responding skill: none") {
		t.Errorf("expected last skill to default to none, got:\n%s", prompt)
	}
}

func TestFormatSkillPrompt_ContainsAllFields(t *testing.T) {
	prompt := FormatSkillPrompt("logic", "Analytical Strategist", "Concise", "dialogue", "the input", "the guidance")

	for _, fragment := range []string{
		`"logic" persona`,
		"Analytical Strategist",
		"Concise",
		"the input",
		"the guidance",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestSimulateResponse_TruncatesLastLine(t *testing.T) {
	long := strings.Repeat("x", 200)
	prompt := "first line\n\n" + long

	got := SimulateResponse(prompt)
	want := "[Simulated response based on prompt: " + strings.Repeat("x", 120) + "]"
	if got != want {
		t.Errorf("SimulateResponse() = %q, want %q", got, want)
	}
}

func TestSimulateResponse_Deterministic(t *testing.T) {
	prompt := "guidance\nrespond now"
	first := SimulateResponse(prompt)
	for i := 0; i < 5; i++ {
		if got := SimulateResponse(prompt); got != first {
			t.Fatalf("SimulateResponse not deterministic: %q vs %q", got, first)
		}
	}
	if first != "[Simulated response based on prompt: respond now]" {
		t.Errorf("unexpected fallback text: %q", first)
	}
}
