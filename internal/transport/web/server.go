package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sandevgo/discobot/internal/service/orchestrator"
	"github.com/sandevgo/discobot/pkg/log"
)

// OrchestratorFactory builds a fresh dialogue engine for a new conversation.
type OrchestratorFactory func(ctx context.Context) (*orchestrator.Orchestrator, error)

// session serializes all access to one conversation's orchestrator. The
// orchestrator processes one turn at a time; the mutex is the boundary that
// keeps concurrent requests for the same conversation id from interleaving
// turns or reading half-written state.
type session struct {
	mu   sync.Mutex
	orch *orchestrator.Orchestrator
}

// Server exposes the dialogue engine over HTTP. Each conversation gets its
// own orchestrator so memories never bleed between clients.
type Server struct {
	addr    string
	factory OrchestratorFactory
	httpSrv *http.Server

	mu            sync.Mutex
	conversations map[string]*session
}

func NewServer(addr string, factory OrchestratorFactory) *Server {
	return &Server{
		addr:          addr,
		factory:       factory,
		conversations: make(map[string]*session),
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("HTTP server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) router(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/chat", s.withContext(ctx, s.handleChat))
	r.Get("/history", s.handleHistory)
	r.Post("/reset", s.handleReset)

	return r
}

// withContext threads the service context (which carries the logger) into
// handlers alongside the request context for cancellation.
func (s *Server) withContext(ctx context.Context, h func(context.Context, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(log.FromCtx(ctx).WithContext(r.Context()), w, r)
	}
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	ConversationID string             `json:"conversation_id"`
	Skill          string             `json:"skill"`
	Reply          string             `json:"reply"`
	Scores         map[string]float64 `json:"scores"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.New().String()
	}

	sess, err := s.conversation(ctx, convID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to build orchestrator")
		writeError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}

	sess.mu.Lock()
	result, err := sess.orch.ProcessUserInput(ctx, req.Message)
	sess.mu.Unlock()
	if err != nil {
		if errors.Is(err, orchestrator.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "message must not be empty")
			return
		}
		log.FromCtx(ctx).Error().Err(err).Str("conversation", convID).Msg("turn failed")
		writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: convID,
		Skill:          result.Skill,
		Reply:          result.Reply,
		Scores:         result.Decision.Scores,
	})
}

type historyRecord struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Skill     string    `json:"skill,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r.URL.Query().Get("conversation_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown conversation")
		return
	}

	sess.mu.Lock()
	records := sess.orch.Memory().Recent(0)
	sess.mu.Unlock()
	out := make([]historyRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, historyRecord{
			Role:      rec.Role,
			Content:   rec.Content,
			Skill:     rec.SkillName(),
			Timestamp: rec.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, ok := s.lookup(req.ConversationID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown conversation")
		return
	}

	sess.mu.Lock()
	sess.orch.Reset()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) conversation(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.conversations[id]; ok {
		return sess, nil
	}
	orch, err := s.factory(ctx)
	if err != nil {
		return nil, err
	}
	sess := &session{orch: orch}
	s.conversations[id] = sess
	return sess, nil
}

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.conversations[id]
	return sess, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
