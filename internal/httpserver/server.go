// apps/daily-server/internal/httpserver/server.go
//
// HTTP server wiring for the daily word game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: GET/DELETE /game, POST /game/guess|next|reset.
//   - Live state stream: GET /game/ws (websocket, outside the timeout group).
//   - Daily leaderboard: mounted under /daily.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Each player is identified by the wordle_session cookie; their state
//     survives restarts through the signed wordle_state cookie.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/daily-server/internal/daily"
	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
	"github.com/robalobadob/wordle/apps/daily-server/internal/store"
)

// Options configures a Server. Results may be nil, in which case finished
// games are not recorded and the leaderboard is unavailable.
type Options struct {
	Source       game.WordSource
	Store        store.Store
	Results      *daily.Store
	Calendar     daily.Calendar
	Secret       string
	ClientOrigin string
	CookieSecure bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server bundles router, session store and results store.
type Server struct {
	r            *chi.Mux
	src          game.WordSource
	store        store.Store
	results      *daily.Store
	cal          daily.Calendar
	signer       *stateSigner
	origin       string
	cookieSecure bool
	now          func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) (*Server, error) {
	if o.Source == nil || o.Store == nil {
		return nil, errors.New("httpserver: source and store are required")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	signer, err := newStateSigner(o.Secret, o.Now)
	if err != nil {
		return nil, err
	}

	s := &Server{
		r:            chi.NewRouter(),
		src:          o.Source,
		store:        o.Store,
		results:      o.Results,
		cal:          o.Calendar,
		signer:       signer,
		origin:       o.ClientOrigin,
		cookieSecure: o.CookieSecure,
		now:          o.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// The websocket lives as long as the client stays connected.
	s.r.Get("/game/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordle-daily","endpoints":["/health","GET /game","POST /game/guess","POST /game/next","POST /game/reset","DELETE /game","GET /game/ws","GET /daily/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len()})
		})

		s.mountGame(r)
		s.mountDaily(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s, nil
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.r)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError writes {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// errorCode maps game errors to a status and a stable error code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidGuessLength):
		return http.StatusBadRequest, "invalid_guess_length"
	case errors.Is(err, game.ErrInvalidGuess):
		return http.StatusBadRequest, "invalid_guess"
	case errors.Is(err, game.ErrGameAlreadyComplete):
		return http.StatusConflict, "game_complete"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
