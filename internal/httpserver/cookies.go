// apps/daily-server/internal/httpserver/cookies.go
//
// Session identity and state persistence cookies.
//   - wordle_session: random UUID naming the player's in-memory session.
//   - wordle_state:   the serialized game state inside an HS256 JWT whose
//     subject is the session ID, so a state cookie cannot be replayed
//     under another session.
//
// The signing key is derived from SESSION_SECRET with HKDF-SHA256.

package httpserver

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	sessionCookieName = "wordle_session"
	stateCookieName   = "wordle_state"

	cookieTTL = 180 * 24 * time.Hour
	stateTTL  = 30 * 24 * time.Hour
)

// stateClaims is the JWT payload of the state cookie.
type stateClaims struct {
	State string `json:"st"`
	jwt.RegisteredClaims
}

type stateSigner struct {
	key []byte
	now func() time.Time
}

func newStateSigner(secret string, now func() time.Time) (*stateSigner, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("wordle state cookie v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	return &stateSigner{key: key, now: now}, nil
}

// seal signs state for session sid.
func (s *stateSigner) seal(sid, state string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(stateTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		State: state,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.key)
	return ss, exp, err
}

// open verifies token for session sid and returns the state it carries.
func (s *stateSigner) open(token, sid string) (string, error) {
	var c stateClaims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(sid),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	return c.State, nil
}

// sessionID returns the request's session ID, or "" if it has none or it is
// not a UUID.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// ensureSessionID returns the existing session ID or sets a new one.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if id := sessionID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, s.cookie(sessionCookieName, id, s.now().Add(cookieTTL)))
	return id
}

// stateToken returns the raw state cookie, "" if absent.
func stateToken(r *http.Request) string {
	if c, err := r.Cookie(stateCookieName); err == nil {
		return c.Value
	}
	return ""
}

// writeState stores the serialized state for sid in the state cookie.
func (s *Server) writeState(w http.ResponseWriter, sid, state string) error {
	tok, exp, err := s.signer.seal(sid, state)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(stateCookieName, tok, exp))
	return nil
}

// clearCookies deletes both cookies.
func (s *Server) clearCookies(w http.ResponseWriter) {
	for _, name := range []string{sessionCookieName, stateCookieName} {
		c := s.cookie(name, "", time.Time{})
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (s *Server) cookie(name, value string, exp time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.cookieSecure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: sameSite,
		Expires:  exp,
	}
}
