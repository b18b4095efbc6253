// apps/daily-server/internal/httpserver/routes_game.go
//
// Game endpoints for the current puzzle:
//   - GET    /game        → current state view
//   - POST   /game/guess  → submit a guess ({"guess": "..."})
//   - POST   /game/next   → move on to the next word of the puzzle
//   - POST   /game/reset  → back to the first word
//   - DELETE /game        → forget the session and clear cookies
//
// Every successful response re-signs the state cookie. Sessions are watched
// so that a game reaching completion is recorded once in the results store.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/daily-server/internal/daily"
	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
)

const maxBodyBytes = 1 << 10

func (s *Server) mountGame(r chi.Router) {
	r.Get("/game", s.handleState)
	r.Delete("/game", s.handleForget)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/next", s.apply(func(sess *game.Session) (game.State, error) { return sess.Next() }))
	r.Post("/game/reset", s.apply(func(sess *game.Session) (game.State, error) { return sess.Reset() }))
}

// stateView is the JSON shape of a game state. Answer is only revealed once
// the game is complete.
type stateView struct {
	WordIndex   int            `json:"wordIndex"`
	TotalWords  int            `json:"totalWords"`
	Theme       string         `json:"theme"`
	WordLength  int            `json:"wordLength"`
	MaxAttempts int            `json:"maxAttempts"`
	Guesses     []string       `json:"guesses"`
	Verdicts    []game.Verdict `json:"verdicts"`
	Status      string         `json:"status"` // "playing" | "won" | "lost"
	Solved      bool           `json:"solved"`
	Exhausted   bool           `json:"exhausted"`
	Answer      string         `json:"answer,omitempty"`
}

func viewOf(st game.State) stateView {
	v := stateView{
		WordIndex:   st.WordIndex,
		TotalWords:  st.TotalWords,
		Theme:       st.Theme,
		WordLength:  st.WordLength(),
		MaxAttempts: st.MaxAttempts,
		Guesses:     append([]string{}, st.Guesses[:st.Attempt()]...),
		Verdicts:    append([]game.Verdict{}, st.Verdicts...),
		Status:      st.Status(),
		Solved:      st.IsSolved(),
		Exhausted:   st.IsExhausted(),
	}
	if st.IsComplete() {
		v.Answer = st.Original
	}
	return v
}

// session resolves the caller's session, issuing a session cookie if needed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *game.Session, error) {
	sid := s.ensureSessionID(w, r)
	sess, err := s.lookup(r, sid)
	return sid, sess, err
}

// lookup returns the live session for sid, restoring it from the state
// cookie the first time it is seen.
func (s *Server) lookup(r *http.Request, sid string) (*game.Session, error) {
	sess, created, err := s.store.Session(r.Context(), sid, func() (game.State, error) {
		return game.Restore(s.src, s.restoreRaw(r, sid))
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.watch(sid, sess)
	}
	return sess, nil
}

// restoreRaw returns the serialized state carried by a valid state cookie.
func (s *Server) restoreRaw(r *http.Request, sid string) string {
	tok := stateToken(r)
	if tok == "" {
		return ""
	}
	raw, err := s.signer.open(tok, sid)
	if err != nil {
		log.Warn().Err(err).Str("session", sid).Msg("discarding state cookie")
		return ""
	}
	return raw
}

// respond writes the state cookie and the state view.
func (s *Server) respond(w http.ResponseWriter, sid string, st game.State) {
	if err := s.writeState(w, sid, st.Serialize()); err != nil {
		log.Error().Err(err).Str("session", sid).Msg("sign state cookie")
	}
	_ = json.NewEncoder(w).Encode(viewOf(st))
}

func (s *Server) fail(w http.ResponseWriter, sid string, err error) {
	status, code := errorCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("session", sid).Msg("game request")
	}
	writeError(w, status, code)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sid, sess, err := s.session(w, r)
	if err != nil {
		s.fail(w, sid, err)
		return
	}
	s.respond(w, sid, sess.State())
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.apply(func(sess *game.Session) (game.State, error) { return sess.Submit(req.Guess) })(w, r)
}

// apply builds a handler running op against the caller's session.
func (s *Server) apply(op func(*game.Session) (game.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, sess, err := s.session(w, r)
		if err != nil {
			s.fail(w, sid, err)
			return
		}
		st, err := op(sess)
		if err != nil {
			s.fail(w, sid, err)
			return
		}
		s.respond(w, sid, st)
	}
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	if sid := sessionID(r); sid != "" {
		if err := s.store.Drop(r.Context(), sid); err != nil {
			log.Warn().Err(err).Str("session", sid).Msg("drop session")
		}
	}
	s.clearCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// result recording

// recorder follows one session and records each game the moment it becomes
// complete. The clock for a word starts when it is first seen with no attempts.
type recorder struct {
	s   *Server
	sid string

	mu      sync.Mutex
	primed  bool
	word    int
	started time.Time
	done    bool
}

// watch subscribes a recorder to sess. A game already complete when the
// session is restored is not recorded again.
func (s *Server) watch(sid string, sess *game.Session) {
	if s.results == nil {
		return
	}
	rec := &recorder{s: s, sid: sid}
	sess.Subscribe(rec.observe)
}

func (rec *recorder) observe(st game.State) {
	now := rec.s.now()

	rec.mu.Lock()
	switch {
	case !rec.primed:
		rec.primed, rec.word, rec.started, rec.done = true, st.WordIndex, now, st.IsComplete()
		rec.mu.Unlock()
		return
	case st.WordIndex != rec.word || st.Attempt() == 0:
		rec.word, rec.started, rec.done = st.WordIndex, now, false
	}
	if rec.done || !st.IsComplete() {
		rec.mu.Unlock()
		return
	}
	rec.done = true
	elapsed := now.Sub(rec.started)
	rec.mu.Unlock()

	rec.s.record(rec.sid, st, elapsed)
}

// record stores a finished game (best effort, logged).
func (s *Server) record(sid string, st game.State, elapsed time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := daily.Result{
		SessionID: sid,
		Date:      s.cal.DateKey(s.now()),
		WordIndex: st.WordIndex,
		Attempts:  st.Attempt(),
		Solved:    st.IsSolved(),
		ElapsedMs: elapsed.Milliseconds(),
	}
	if done, err := s.results.AlreadyRecorded(ctx, sid, res.Date, res.WordIndex); err == nil && done {
		log.Debug().Str("session", sid).Int("wordIndex", res.WordIndex).Msg("result already recorded")
		return
	}
	if err := s.results.InsertResult(ctx, res); err != nil {
		log.Warn().Err(err).Str("session", sid).Msg("insert result")
		return
	}
	log.Info().
		Str("session", sid).
		Str("date", res.Date).
		Int("wordIndex", res.WordIndex).
		Int("attempts", res.Attempts).
		Bool("solved", res.Solved).
		Msg("result recorded")
}
