package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"paige/internal/conversation"
	"paige/internal/interaction"
	"paige/internal/selection"
)

// Controller is what the HTTP surface needs from the interaction state machine.
type Controller interface {
	State() interaction.State
	SetDraft(text string)
	Submit(prompt string) error
	SubmitQuick(id string) error
	Close()
	History() []conversation.Record
	QuickPrompts() []interaction.QuickPrompt
}

// ReleaseSink accepts raw release events reported by the page.
type ReleaseSink interface {
	Dispatch(ev selection.ReleaseEvent)
}

type Options struct {
	Addr         string
	DocumentPath string
	// AllowedOrigin restricts WebSocket upgrades; empty allows any origin.
	AllowedOrigin string
}

// Server is the host runtime for the reader page: release events come in over
// HTTP, state goes out over HTTP and a WebSocket stream.
type Server struct {
	ctrl     Controller
	releases ReleaseSink
	hub      *Hub
	opts     Options
	log      *zap.Logger
	upgrader websocket.Upgrader
	server   *http.Server
	started  time.Time
}

func NewServer(ctrl Controller, releases ReleaseSink, hub *Hub, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		ctrl:     ctrl,
		releases: releases,
		hub:      hub,
		opts:     opts,
		log:      log.With(zap.String("component", "web")),
		started:  time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return opts.AllowedOrigin == "" || r.Header.Get("Origin") == opts.AllowedOrigin
		},
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", method(http.MethodGet, s.handleStatus))
	mux.HandleFunc("/api/selection", method(http.MethodPost, s.handleSelection))
	mux.HandleFunc("/api/draft", method(http.MethodPost, s.handleDraft))
	mux.HandleFunc("/api/submit", method(http.MethodPost, s.handleSubmit))
	mux.HandleFunc("/api/close", method(http.MethodPost, s.handleClose))
	mux.HandleFunc("/api/state", method(http.MethodGet, s.handleState))
	mux.HandleFunc("/api/conversations", method(http.MethodGet, s.handleConversations))
	mux.HandleFunc("/api/quick-prompts", method(http.MethodGet, s.handleQuickPrompts))
	mux.HandleFunc("/document", method(http.MethodGet, s.handleDocument))
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start blocks serving HTTP until Stop is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.log.Info("starting reader server", zap.String("addr", s.opts.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.hub != nil {
		s.hub.CloseAll()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func method(m string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			w.Header().Set("Allow", m)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var ev selection.ReleaseEvent
	if !decode(w, r, &ev) {
		return
	}
	s.releases.Dispatch(ev)
	w.WriteHeader(http.StatusAccepted)
}

type draftRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}
	s.ctrl.SetDraft(req.Text)
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

type submitRequest struct {
	Prompt        string `json:"prompt"`
	QuickPromptID string `json:"quickPromptId"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	var err error
	if req.QuickPromptID != "" {
		err = s.ctrl.SubmitQuick(req.QuickPromptID)
	} else {
		err = s.ctrl.Submit(req.Prompt)
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, s.ctrl.State())
	case errors.Is(err, interaction.ErrBusy), errors.Is(err, interaction.ErrNotOpen):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, interaction.ErrEmptyPrompt), errors.Is(err, interaction.ErrUnknownQuickPrompt):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("submit failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Close()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.History())
}

func (s *Server) handleQuickPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.QuickPrompts())
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if s.opts.DocumentPath == "" {
		writeError(w, http.StatusNotFound, "no document configured")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, s.opts.DocumentPath)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	payload, err := json.Marshal(s.ctrl.State())
	if err != nil {
		s.log.Warn("failed to encode state snapshot", zap.Error(err))
	}
	s.hub.Join(conn, payload)
	// Clients only listen; reading detects disconnects.
	go func() {
		defer s.hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
