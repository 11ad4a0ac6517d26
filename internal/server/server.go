package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultAddr is the default address for the chat API server.
	DefaultAddr = ":8080"

	// DefaultTurnTimeout bounds how long a single chat turn may take,
	// covering extraction, provider calls and reply rendering.
	DefaultTurnTimeout = 60 * time.Second

	// DefaultReadHeaderTimeout is the read header timeout for the API server.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout is the idle timeout for the API server.
	DefaultIdleTimeout = 60 * time.Second
)

// TurnHandler processes one chat message and returns the reply text.
type TurnHandler interface {
	HandleTurn(ctx context.Context, message, requester string) string
}

// Config holds configuration for the chat API server.
type Config struct {
	// Addr is the address to bind to; defaults to DefaultAddr.
	Addr string

	// Assistant handles chat turns; required.
	Assistant TurnHandler

	// Requester is the identity attributed to API-originated turns,
	// typically the service account email.
	Requester string

	// TurnTimeout defaults to DefaultTurnTimeout.
	TurnTimeout time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Server exposes the assistant over HTTP: POST /api/chat for turns, plus
// health and capability endpoints.
type Server struct {
	addr        string
	assistant   TurnHandler
	requester   string
	turnTimeout time.Duration
	logger      *slog.Logger
	health      *HealthChecker
	httpServer  *http.Server
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the success body of POST /api/chat.
type chatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// errorResponse is the error body for all API endpoints.
type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// New creates a chat API server.
func New(cfg Config) (*Server, error) {
	if cfg.Assistant == nil {
		return nil, fmt.Errorf("assistant is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultTurnTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		addr:        cfg.Addr,
		assistant:   cfg.Assistant,
		requester:   cfg.Requester,
		turnTimeout: cfg.TurnTimeout,
		logger:      cfg.Logger,
		health:      NewHealthChecker(),
	}, nil
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/tools", s.handleTools)
	s.health.RegisterHealthEndpoints(mux)
	return mux
}

// Start starts the API server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.logger.Info("starting chat API server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the API server. In-flight turns get the
// remainder of ctx to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetShuttingDown(true)
	if s.httpServer != nil {
		s.logger.Info("shutting down chat API server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the API server.
func (s *Server) Addr() string {
	return s.addr
}

// Health returns the server's health checker for readiness control.
func (s *Server) Health() *HealthChecker {
	return s.health
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.turnTimeout)
	defer cancel()

	reply := s.assistant.HandleTurn(ctx, req.Message, s.requester)
	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply,
		Status:   "success",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "schedassist",
	})
}

// toolDescriptor describes one capability exposed to chat clients.
type toolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var tools = []toolDescriptor{
	{Name: "schedule_interview", Description: "Schedule an interview at the default 6 PM slot"},
	{Name: "create_meeting", Description: "Create a calendar meeting from a natural-language request"},
	{Name: "list_events", Description: "List calendar events for the next 24 hours"},
	{Name: "list_emails", Description: "List recent inbox messages"},
	{Name: "delete_meeting", Description: "Delete a calendar event by subject"},
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": tools,
	})
}

// isJSONContentType accepts application/json with optional parameters such
// as a charset.
func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Error:  message,
		Status: "error",
	})
}
