package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/observability/log"
)

// Message types pushed to websocket clients.
const (
	MessageState  = "state"
	MessageChange = "change"
)

// Message is one frame of the live feed. The first frame after connecting is
// always a full state; later frames carry the change and the state after it.
type Message struct {
	Type        string            `json:"type"`
	Event       string            `json:"event,omitempty"`
	Version     uint64            `json:"version"`
	Fingerprint string            `json:"fingerprint"`
	State       composition.State `json:"state"`
	Change      *events.Change    `json:"change,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// hub fans composition events out to every connected client.
type hub struct {
	server *Server

	mu      sync.RWMutex
	clients map[string]*client
	sub     events.Subscription

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func newHub(s *Server) *hub {
	return &hub{server: s, clients: make(map[string]*client)}
}

func (h *hub) start() error {
	if h.server.subscriber == nil {
		return nil
	}
	sub, err := h.server.subscriber.SubscribeAll(h.onEvent)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.sub = sub
	h.mu.Unlock()
	return nil
}

func (h *hub) stop() {
	h.mu.Lock()
	sub := h.sub
	h.sub = nil
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	if sub != nil {
		_ = sub.Cancel()
	}
	for _, c := range clients {
		c.close()
	}
}

func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) stats() Stats {
	return Stats{
		Clients:   h.clientCount(),
		Delivered: h.delivered.Load(),
		Dropped:   h.dropped.Load(),
	}
}

// onEvent runs on the writer goroutine, so it must never block.
func (h *hub) onEvent(event events.Event) error {
	if event.Source() != events.SourceComposition {
		return nil
	}
	msg := h.snapshot(MessageChange)
	msg.Event = event.Type()
	if change, ok := events.ChangeOf(event); ok {
		msg.Change = &change
	}
	payload, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	h.broadcast(payload)
	return nil
}

func (h *hub) snapshot(typ string) Message {
	state, version := h.server.source.VersionedState()
	return Message{
		Type:        typ,
		Version:     version,
		Fingerprint: fingerprintHex(composition.Fingerprint(state)),
		State:       state,
	}
}

func (h *hub) broadcast(payload []byte) {
	h.mu.RLock()
	var slow []*client
	for _, c := range h.clients {
		select {
		case c.send <- payload:
			h.delivered.Add(1)
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.dropped.Add(1)
		h.server.logger.Warn("dropping slow preview client", log.String("client_id", c.id))
		h.remove(c)
	}
}

// add registers c and queues the initial state. Both happen under the hub
// lock so no broadcast can slip between the snapshot and registration.
func (h *hub) add(c *client) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) >= h.server.config.MaxClients {
		return false, nil
	}
	initial, err := encodeMessage(h.snapshot(MessageState))
	if err != nil {
		return false, err
	}
	c.send <- initial
	h.clients[c.id] = c
	return true, nil
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

func (h *hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.server.closed.Load() {
		writeError(w, http.StatusServiceUnavailable, ErrServerClosed)
		return
	}
	if h.clientCount() >= h.server.config.MaxClients {
		writeError(w, http.StatusServiceUnavailable, ErrMaxClientsReached)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.server.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.server.config.SendBuffer),
	}

	ok, err := h.add(c)
	if err != nil {
		h.server.logger.Error("encode initial state", log.Error(err))
		_ = conn.Close()
		return
	}
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, ErrMaxClientsReached.Error()),
			time.Now().Add(h.server.config.WriteWait))
		_ = conn.Close()
		return
	}

	h.server.logger.Info("preview client connected",
		log.String("client_id", c.id),
		log.String("remote", r.RemoteAddr),
	)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client frames and detects disconnects.
func (h *hub) readPump(c *client) {
	cfg := h.server.config
	defer func() {
		h.remove(c)
		h.server.logger.Info("preview client disconnected", log.String("client_id", c.id))
	}()

	c.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PingInterval * 2))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PingInterval * 2))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) writePump(c *client) {
	cfg := h.server.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
