// apps/daily-server/internal/httpserver/ws.go
//
// GET /game/ws streams the caller's game state over a websocket.
// The current state is pushed on connect and again after every change,
// whichever connection or request caused it. Clients may also play over the
// socket by sending {"type":"guess","guess":"..."}, {"type":"next"} or
// {"type":"reset"}.
//
// The state cookie is only written on HTTP responses. After each command
// played over the socket the server pushes {"type":"sync"}, asking the client
// to call GET /game so the cookie follows and progress survives a restart.
//
// Commands and pongs mark the session as in use, so an open socket keeps it
// from being swept as idle.
//
// The session cookie must already exist: cookies set on the upgrade response
// are not reliably honoured, so a first GET /game is expected beforehand.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second    // time allowed to read the next pong message from the client
	pingPeriod     = (pongWait * 9) / 10 // must be less than pongWait
	maxMessageSize = 512
	sendBuffer     = 16
)

// wsIn is a message from the client.
type wsIn struct {
	Type  string `json:"type"`
	Guess string `json:"guess,omitempty"`
}

// wsOut is a message to the client: a state, an error or a sync hint.
type wsOut struct {
	Type  string     `json:"type"` // "state" | "error" | "sync"
	State *stateView `json:"state,omitempty"`
	Error string     `json:"error,omitempty"`
}

// stream is one websocket client following a session.
type stream struct {
	sid   string
	sess  *game.Session
	conn  *websocket.Conn
	send  chan []byte
	touch func()

	done     chan struct{}
	doneOnce sync.Once
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.origin
		},
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}
	sess, err := s.lookup(r, sid)
	if err != nil {
		s.fail(w, sid, err)
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sid).Msg("websocket upgrade")
		return
	}

	c := &stream{
		sid:   sid,
		sess:  sess,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		touch: func() { s.store.Touch(sid) },
		done:  make(chan struct{}),
	}
	unsubscribe := sess.Subscribe(func(st game.State) {
		v := viewOf(st)
		c.push(wsOut{Type: "state", State: &v})
	})
	log.Debug().Str("session", sid).Msg("stream opened")

	go c.writePump()
	go func() {
		c.readPump()
		unsubscribe()
		c.close()
		log.Debug().Str("session", sid).Msg("stream closed")
	}()
}

// push queues msg. A client too slow to drain its buffer misses the message;
// every state message carries the full state, so the next one catches it up.
func (c *stream) push(msg wsOut) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("encode stream message")
		return
	}
	select {
	case c.send <- b:
	case <-c.done:
	default:
		log.Debug().Str("session", c.sid).Msg("stream buffer full, dropping message")
	}
}

func (c *stream) close() { c.doneOnce.Do(func() { close(c.done) }) }

// readPump applies client commands until the connection fails.
func (c *stream) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session", c.sid).Msg("websocket read")
			}
			return
		}
		c.handle(data)
	}
}

func (c *stream) handle(data []byte) {
	c.touch()
	var in wsIn
	if err := json.Unmarshal(data, &in); err != nil {
		c.push(wsOut{Type: "error", Error: "bad_json"})
		return
	}

	var err error
	switch in.Type {
	case "guess":
		_, err = c.sess.Submit(in.Guess)
	case "next":
		_, err = c.sess.Next()
	case "reset":
		_, err = c.sess.Reset()
	default:
		c.push(wsOut{Type: "error", Error: "unknown_type"})
		return
	}
	if err != nil {
		_, code := errorCode(err)
		c.push(wsOut{Type: "error", Error: code})
		return
	}
	c.push(wsOut{Type: "sync"})
}

// writePump forwards queued messages and keeps the connection alive.
func (c *stream) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
