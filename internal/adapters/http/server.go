// Package http serves a read-mostly inspector over a running app: its state,
// screen stack, coordinators and effects, plus endpoints to send actions and
// press buttons on the visible screen.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/go-chi/chi/v5"
)

const (
	apiVersion = "0.1.0"
	// maxBody bounds POST bodies.
	maxBody = 1 << 20
)

// App is what the inspector needs from a running wayfinder.App.
type App interface {
	Call(ctx context.Context, fn func()) error
	StateJSON() (json.RawMessage, error)
	Stack() [][]string
	Top() *ports.Screen
	Coordinators() []coordinator.Info
	Effects() []string
	SendJSON(data []byte) error
	Snapshot() (*domain.Snapshot, error)
	Watch(fn func(*domain.StateDiff)) (cancel func())
}

// StackView is the body of GET /stack.
type StackView struct {
	Levels [][]string `json:"levels"`
	Top    string     `json:"top,omitempty"`
	View   string     `json:"view,omitempty"`
}

// Server handles inspector requests.
type Server struct {
	app     App
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the inspector router for app.
func NewHandler(app App, opts ...Option) http.Handler {
	s := &Server{app: app, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/stack", s.GetStack)
	r.Get("/coordinators", s.GetCoordinators)
	r.Get("/effects", s.GetEffects)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/actions", s.PostAction)
	r.Post("/buttons/{name}", s.PressButton)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "wayfinder-inspector",
		"version":     strings.TrimSpace(wayfinder.Version),
		"api_version": apiVersion,
	})
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	var state json.RawMessage
	var err error
	if !s.call(w, r, func() { state, err = s.app.StateJSON() }) {
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "encode state", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(state)
}

// GetStack handles GET /stack.
func (s *Server) GetStack(w http.ResponseWriter, r *http.Request) {
	var view StackView
	if !s.call(w, r, func() { view = s.stackView() }) {
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) stackView() StackView {
	view := StackView{Levels: s.app.Stack()}
	if top := s.app.Top(); top != nil {
		view.Top = top.Title
		if top.View != nil {
			view.View = top.View()
		}
	}
	return view
}

// GetCoordinators handles GET /coordinators.
func (s *Server) GetCoordinators(w http.ResponseWriter, r *http.Request) {
	var infos []coordinator.Info
	if !s.call(w, r, func() { infos = s.app.Coordinators() }) {
		return
	}
	s.writeJSON(w, http.StatusOK, infos)
}

// GetEffects handles GET /effects.
func (s *Server) GetEffects(w http.ResponseWriter, r *http.Request) {
	var effects []string
	if !s.call(w, r, func() { effects = s.app.Effects() }) {
		return
	}
	s.writeJSON(w, http.StatusOK, effects)
}

// GetSnapshot handles GET /snapshot.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshot *domain.Snapshot
	var err error
	if !s.call(w, r, func() { snapshot, err = s.app.Snapshot() }) {
		return
	}
	if err != nil {
		s.fail(w, http.StatusConflict, "snapshot", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

// PostAction handles POST /actions: the body is one root action.
func (s *Server) PostAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "read body", err)
		return
	}
	var view StackView
	if !s.call(w, r, func() {
		if err = s.app.SendJSON(body); err == nil {
			view = s.stackView()
		}
	}) {
		return
	}
	if err != nil {
		s.fail(w, http.StatusBadRequest, "send action", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// PressButton handles POST /buttons/{name}?arg=: it presses a button of the
// visible screen.
func (s *Server) PressButton(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	arg := r.URL.Query().Get("arg")

	var view StackView
	var err error
	if !s.call(w, r, func() {
		controls, ok := topControls(s.app.Top())
		if !ok {
			err = domain.ErrNoRoot
			return
		}
		if err = demo.Press(controls, name, arg); err == nil {
			view = s.stackView()
		}
	}) {
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnknownAction):
		s.fail(w, http.StatusNotFound, "press", err)
	case errors.Is(err, domain.ErrNoRoot):
		s.fail(w, http.StatusConflict, "press", err)
	case err != nil:
		s.fail(w, http.StatusBadRequest, "press", err)
	default:
		s.writeJSON(w, http.StatusOK, view)
	}
}

func topControls(top *ports.Screen) (demo.Controls, bool) {
	if top == nil {
		return nil, false
	}
	controls, ok := top.Owner.(demo.Controls)
	return controls, ok
}

// SubscribeEvents handles GET /events: a server-sent stream of state diffs.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	diffs := make(chan *domain.StateDiff, 16)
	var stop func()
	if !s.call(w, r, func() {
		stop = s.app.Watch(func(d *domain.StateDiff) {
			select {
			case diffs <- d:
			default:
				s.logger.Warn("SSE: client buffer full, dropping diff")
			}
		})
	}) {
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.app.Call(ctx, stop); err != nil {
			s.logger.Warn("SSE: failed to stop watching", "error", err)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case d := <-diffs:
			data, err := json.Marshal(d)
			if err != nil {
				s.logger.Error("SSE: encode diff failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// call runs fn on the app's loop. It writes the error response and returns
// false when the request ends first.
func (s *Server) call(w http.ResponseWriter, r *http.Request, fn func()) bool {
	if err := s.app.Call(r.Context(), fn); err != nil {
		s.fail(w, http.StatusServiceUnavailable, "call", err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, code int, op string, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Error("inspector request failed", "op", op, "error", err)
	} else {
		s.logger.Warn("inspector request rejected", "op", op, "error", err)
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
