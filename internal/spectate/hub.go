// Package spectate streams live games to websocket viewers. Each viewer
// follows one session and receives its events together with a status
// snapshot as JSON text frames.
package spectate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer      = 64
	broadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectating is read-only, so any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is one frame sent to viewers.
type Message struct {
	Session string       `json:"session"`
	Event   *event.Event `json:"event,omitempty"`
	Status  *game.Status `json:"status,omitempty"`
}

// Directory lists the sessions that can be watched.
type Directory interface {
	IDs() []string
	Status(id string) (game.Status, bool)
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session string
}

type countRequest struct {
	session string
	reply   chan int
}

// Hub maintains the set of viewers and fans session updates out to them.
// All viewer bookkeeping happens on the Run goroutine.
type Hub struct {
	dir Directory
	log *slog.Logger

	// Registered viewers by session ID.
	sessions map[string]map[*client]bool

	broadcast  chan Message
	register   chan *client
	unregister chan *client
	count      chan countRequest
	done       chan struct{}
}

// NewHub creates a Hub over dir. Call Run before serving viewers.
func NewHub(dir Directory, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		dir:        dir,
		log:        log,
		sessions:   make(map[string]map[*client]bool),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		count:      make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, closing
// every viewer.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)

		case req := <-h.count:
			req.reply <- len(h.sessions[req.session])
		}
	}
}

// Publish queues an update for the viewers of sessionID. It never blocks
// the game: when the queue is full the update is dropped.
func (h *Hub) Publish(sessionID string, e event.Event, st game.Status) {
	msg := Message{Session: sessionID, Event: &e, Status: &st}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("spectator queue full, update dropped", "session", sessionID, "event", e.Kind.String())
	}
}

// Viewers returns how many viewers follow sessionID.
func (h *Hub) Viewers(sessionID string) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{session: sessionID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Handler serves GET /ws?session=<id> and GET /sessions.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.ServeWS)
	mux.HandleFunc("GET /sessions", h.serveSessions)
	return mux
}

// ServeWS upgrades the request and subscribes the viewer to the session
// named by the "session" query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}
	st, ok := h.dir.Status(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		session: id,
	}
	if data, err := json.Marshal(Message{Session: id, Status: &st}); err == nil {
		c.send <- data
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (h *Hub) serveSessions(w http.ResponseWriter, _ *http.Request) {
	ids := h.dir.IDs()
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"sessions": ids}); err != nil {
		h.log.Warn("write session list", "err", err)
	}
}

// registerClient adds a viewer to a session.
func (h *Hub) registerClient(c *client) {
	if h.sessions[c.session] == nil {
		h.sessions[c.session] = make(map[*client]bool)
	}
	h.sessions[c.session][c] = true
	h.log.Info("viewer joined", "session", c.session, "viewers", len(h.sessions[c.session]))
}

// unregisterClient removes a viewer from its session.
func (h *Hub) unregisterClient(c *client) {
	clients, ok := h.sessions[c.session]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.session)
	}
	h.log.Info("viewer left", "session", c.session, "viewers", len(clients))
}

// broadcastMessage sends a message to all viewers of its session. A viewer
// that cannot keep up is dropped.
func (h *Hub) broadcastMessage(msg Message) {
	clients, ok := h.sessions[msg.Session]
	if !ok {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal spectator message", "err", err)
		return
	}
	for c := range clients {
		select {
		case c.send <- data:
		default:
			h.unregisterClient(c)
		}
	}
}

// readPump discards viewer input and detects disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket error", "session", c.session, "err", err)
			}
			return
		}
	}
}

// writePump sends queued frames and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
