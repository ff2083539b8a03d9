package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/internal/service/memory"
	"github.com/sandevgo/discobot/internal/service/orchestrator"
	"github.com/stretchr/testify/require"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string, params map[string]any) string {
	return "ack"
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	cfg := `{"name": "logic", "persona": "analyst", "keywords": ["plan"], "base_weight": 1.0}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logic.json"), []byte(cfg), 0644))

	factory := func(ctx context.Context) (*orchestrator.Orchestrator, error) {
		mem := memory.NewManager(memory.NewShortTerm(10), core.NoLongTerm())
		return orchestrator.New(ctx, mem, echoGenerator{}, orchestrator.Options{
			SkillConfigDir: dir,
			MatrixPath:     filepath.Join(dir, "missing_matrix.yaml"),
		})
	}

	srv := NewServer(":0", factory)
	return srv.router(context.Background())
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChatCreatesConversation(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/chat", chatRequest{Message: "help me plan"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ConversationID)
	require.Equal(t, "logic", resp.Skill)
	require.Equal(t, "ack", resp.Reply)
	require.Contains(t, resp.Scores, "logic")
}

func TestChatReusesConversation(t *testing.T) {
	h := newTestHandler(t)

	first := postJSON(t, h, "/chat", chatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, first.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))

	second := postJSON(t, h, "/chat", chatRequest{
		Message:        "again",
		ConversationID: resp.ConversationID,
	})
	require.Equal(t, http.StatusOK, second.Code)

	req := httptest.NewRequest(http.MethodGet, "/history?conversation_id="+resp.ConversationID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []historyRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 4) // two turns, user + assistant each
}

func TestChatEmptyMessage(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/chat", chatRequest{Message: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryUnknownConversation(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/history?conversation_id=nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatSerializesSameConversation(t *testing.T) {
	h := newTestHandler(t)

	first := postJSON(t, h, "/chat", chatRequest{Message: "start"})
	require.Equal(t, http.StatusOK, first.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))

	const (
		workers        = 6
		turnsPerWorker = 5
	)

	var wg sync.WaitGroup
	codes := make([][]int, workers)
	for i := 0; i < workers; i++ {
		codes[i] = make([]int, turnsPerWorker)
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < turnsPerWorker; j++ {
				rec := postJSON(t, h, "/chat", chatRequest{
					Message:        "plan the next move",
					ConversationID: resp.ConversationID,
				})
				codes[worker][j] = rec.Code
			}
		}(i)
	}
	wg.Wait()

	for _, workerCodes := range codes {
		for _, code := range workerCodes {
			require.Equal(t, http.StatusOK, code)
		}
	}

	// Turns must not interleave: the buffer holds whole (user, assistant)
	// pairs in order, with non-decreasing timestamps.
	req := httptest.NewRequest(http.MethodGet, "/history?conversation_id="+resp.ConversationID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []historyRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.NotEmpty(t, records)
	require.Zero(t, len(records)%2)

	for i, record := range records {
		if i%2 == 0 {
			require.Equal(t, "user", record.Role)
		} else {
			require.Equal(t, "assistant", record.Role)
			require.Equal(t, "logic", record.Skill)
		}
		if i > 0 {
			require.False(t, record.Timestamp.Before(records[i-1].Timestamp))
		}
	}
}

func TestResetClearsHistory(t *testing.T) {
	h := newTestHandler(t)

	first := postJSON(t, h, "/chat", chatRequest{Message: "hello"})
	var resp chatResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))

	rec := postJSON(t, h, "/reset", map[string]string{"conversation_id": resp.ConversationID})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/history?conversation_id="+resp.ConversationID, nil)
	histRec := httptest.NewRecorder()
	h.ServeHTTP(histRec, req)

	var records []historyRecord
	require.NoError(t, json.Unmarshal(histRec.Body.Bytes(), &records))
	require.Empty(t, records)
}
