// internal/httpserver/server.go
//
// HTTP server wiring for the QuizBust backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, CORS, timeouts, panic recovery, JSON).
//   - Public endpoints: "/", "/health".
//   - Session endpoints: POST /sessions, GET|DELETE /sessions/{id}, POST /sessions/{id}/<action>.
//   - Subject endpoints: GET /subjects, GET /subjects/daily.
//   - Chat proxy: POST /deepseek (alias POST /api/chat), see proxy.go.
//
// Notes:
//   - CORS is origin-aware; allowed origins come from configuration.
//   - Every error body is JSON: {"error": "..."} plus the session view where one exists.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/llm"
	"github.com/robalobadob/quizbust/internal/quiz"
	"github.com/robalobadob/quizbust/internal/service"
	"github.com/robalobadob/quizbust/internal/store"
	"github.com/robalobadob/quizbust/internal/subjects"
)

// Options tunes the server.
type Options struct {
	// Origins allowed by CORS.
	Origins []string
	// RequestTimeout bounds handler time. It must exceed the model timeout.
	RequestTimeout time.Duration
	// DailySalt seeds the subject of the day.
	DailySalt string
}

// Server bundles router, play service, chat provider and subject catalogue.
type Server struct {
	r        *chi.Mux
	svc      *service.Service
	provider llm.Provider
	subjects *subjects.Catalogue
	salt     string
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *service.Service, provider llm.Provider, cat *subjects.Catalogue, opt Options) *Server {
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 90 * time.Second
	}
	s := &Server{r: chi.NewRouter(), svc: svc, provider: provider, subjects: cat, salt: opt.DailySalt, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(opt.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opt.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":  "quizbust",
			"provider": s.provider.Name(),
			"endpoints": []string{
				"/health", "POST /sessions", "GET /sessions/{id}", "DELETE /sessions/{id}", "POST /sessions/{id}/{action}",
				"GET /subjects", "GET /subjects/daily", "POST /deepseek",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleEndSession)
			r.Post("/question", s.handleQuestion)
			r.Post("/next", s.handleNext)
			r.Post("/proceed", s.action(func(*http.Request) (game.Action, error) { return game.Proceed{}, nil }))
			r.Post("/wager", s.action(decodeWager))
			r.Post("/lock", s.action(func(*http.Request) (game.Action, error) { return game.LockWager{}, nil }))
			r.Post("/select", s.action(decodeSelect))
			r.Post("/answer", s.action(func(*http.Request) (game.Action, error) { return game.SubmitAnswer{}, nil }))
			r.Post("/abandon", s.action(func(*http.Request) (game.Action, error) { return game.Abandon{}, nil }))
			r.Post("/restart", s.action(func(*http.Request) (game.Action, error) { return game.Restart{}, nil }))
			r.Post("/reset", s.action(func(*http.Request) (game.Action, error) { return game.Reset{}, nil }))
		})
	})

	s.r.Get("/subjects", s.handleSuggestions)
	s.r.Get("/subjects/daily", s.handleDaily)

	s.mountProxy()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	})

	return s
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	lvl := zerolog.InfoLevel
	if status >= http.StatusInternalServerError {
		lvl = zerolog.WarnLevel
	}
	hlog.FromRequest(r).WithLevel(lvl).
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ SESSIONS -----------------------------------

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.NewSession(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, newView(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, newView(sess))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type questionReq struct {
	Subject string `json:"subject"`
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	sess, err := s.svc.RequestQuestion(r.Context(), chi.URLParam(r, "id"), req.Subject)
	s.respond(w, r, sess, err)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Next(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, r, sess, err)
}

// action adapts a synchronous game action to a handler. build decodes the
// request body into the action.
func (s *Server) action(build func(*http.Request) (game.Action, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := build(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
			return
		}
		sess, err := s.svc.Do(r.Context(), chi.URLParam(r, "id"), a)
		s.respond(w, r, sess, err)
	}
}

type wagerReq struct {
	Amount *int `json:"amount"`
}

func decodeWager(r *http.Request) (game.Action, error) {
	var req wagerReq
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, errors.New("missing amount")
	}
	return game.SetWager{Amount: *req.Amount}, nil
}

type selectReq struct {
	Choice *int `json:"choice"`
}

func decodeSelect(r *http.Request) (game.Action, error) {
	var req selectReq
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.Choice == nil {
		return nil, errors.New("missing choice")
	}
	return game.SelectChoice{Choice: *req.Choice}, nil
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess game.Session, err error) {
	if err != nil {
		var v *view
		if sess.ID != "" {
			sv := newView(sess)
			v = &sv
		}
		writeError(w, r, err, v)
		return
	}
	writeJSON(w, http.StatusOK, newView(sess))
}

// ------------------------------ SUBJECTS -----------------------------------

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	n := 6
	if v := r.URL.Query().Get("n"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 || k > 50 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be between 1 and 50"})
			return
		}
		n = k
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": s.subjects.Suggestions(n)})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, map[string]string{
		"date":    subjects.DateKey(now),
		"subject": s.subjects.Daily(now, s.salt),
	})
}

// ------------------------------- helpers -----------------------------------

// decode reads an optional JSON body; an empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Session *view  `json:"session,omitempty"`
}

// writeError maps err to a status code and writes the JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error, sess *view) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusBadGateway {
		msg = game.FailureMessage(err)
	}
	if code >= http.StatusInternalServerError {
		hlog.FromRequest(r).Warn().Err(err).Int("status", code).Msg("request failed")
	}
	writeJSON(w, code, errorBody{Error: msg, Session: sess})
}

func statusFor(err error) int {
	var ve *game.ValidationError
	var te *llm.TransportError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ve), errors.Is(err, quiz.ErrEmptySubject):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidPhase), errors.Is(err, game.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &te), errors.Is(err, quiz.ErrUnparsable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
