package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one browser connection attached to a session. Only writePump
// writes to conn.
type client struct {
	conn    *websocket.Conn
	session *game.Session
	errs    chan string
	log     *log.Entry
}

// HandleWebSocket upgrades the connection and attaches it to the session
// named in the path, creating the session on first use.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("[HandleWebSocket] upgrade failed: %v", err)
		return
	}

	session := s.sessions.GetOrCreate(sessionID)
	c := &client{
		conn:    conn,
		session: session,
		errs:    make(chan string, 8),
		log:     s.log.WithField("session", sessionID),
	}
	c.log.Info("[HandleWebSocket] client connected")

	snapshots, unsubscribe := session.Subscribe()
	done := make(chan struct{})
	go c.writePump(snapshots, done)
	go func() {
		defer close(done)
		defer unsubscribe()
		c.readPump()
	}()
}

// readPump decodes action frames until the connection drops.
func (c *client) readPump() {
	defer func() {
		c.conn.Close()
		c.log.Info("[readPump] client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warnf("[readPump] read error: %v", err)
			}
			return
		}

		var action internal.Action
		if err := json.Unmarshal(raw, &action); err != nil {
			c.log.Debugf("[readPump] malformed frame: %v", err)
			c.reportError(fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := Dispatch(c.session, action); err != nil {
			c.log.Debugf("[readPump] action %q rejected: %v", action.Type, err)
			c.reportError(err)
		}
	}
}

// writePump forwards snapshots and errors, and keeps the connection alive
// with pings.
func (c *client) writePump(snapshots <-chan internal.SnapshotData, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-snapshots:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			msg := internal.Message[internal.SnapshotData]{Type: internal.MessageSnapshot, Data: snap}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debugf("[writePump] write failed: %v", err)
				return
			}
		case text := <-c.errs:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			msg := internal.Message[string]{Type: internal.MessageError, Data: text}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debugf("[writePump] write failed: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// reportError queues err for the client, dropping it if the queue is full.
func (c *client) reportError(err error) {
	select {
	case c.errs <- err.Error():
	default:
	}
}
