// Package live pushes catalog changes to the open pages of a vertical over
// websockets.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// CatalogUpdate is the payload of a catalog_updated event.
type CatalogUpdate struct {
	Vertical catalog.Vertical `json:"vertical"`
	Version  uint64           `json:"version"`
	Reason   string           `json:"reason"`
}

// client owns one connection; only its writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendBuffer)}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

type room struct {
	mu      sync.Mutex
	clients map[*client]bool
}

// broadcast never blocks: a client whose buffer is full is dropped.
func (r *room) broadcast(payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		select {
		case c.send <- payload:
		default:
			delete(r.clients, c)
			close(c.send)
		}
	}
}

func (r *room) register(c *client) {
	r.mu.Lock()
	r.clients[c] = true
	r.mu.Unlock()
}

func (r *room) unregister(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clients[c] {
		delete(r.clients, c)
		close(c.send)
	}
}

func (r *room) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Hub keeps one room of listeners per vertical.
type Hub struct {
	registry *catalog.Registry
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[catalog.Vertical]*room
}

// NewHub subscribes to every store of registry.
func NewHub(registry *catalog.Registry) *Hub {
	h := &Hub{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		rooms: make(map[catalog.Vertical]*room),
	}
	registry.Subscribe(h.onCatalogChange)
	return h
}

func (h *Hub) room(v catalog.Vertical) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[v]; ok {
		return r
	}
	r := &room{clients: make(map[*client]bool)}
	h.rooms[v] = r
	return r
}

func (h *Hub) onCatalogChange(next catalog.State, action catalog.Action) {
	h.Publish(next.Vertical, wsEvent{
		Type: "catalog_updated",
		Data: CatalogUpdate{Vertical: next.Vertical, Version: next.Version, Reason: action.Reason()},
	})
}

// Publish sends an event to every listener of the vertical.
func (h *Hub) Publish(v catalog.Vertical, evt any) {
	payload, err := json.Marshal(evt)
	if err != nil {
		logx.Error().Err(err).Msg("encode live event")
		return
	}
	h.room(v).broadcast(payload)
}

// Listeners counts the open connections of a vertical.
func (h *Hub) Listeners(v catalog.Vertical) int {
	return h.room(v).size()
}

// Serve - websocket for live catalog updates of one vertical
func (h *Hub) Serve(c echo.Context) error {
	store, ok := h.registry.Lookup(c.Param("vertical"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown vertical"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	r := h.room(store.Vertical())
	snap := store.Snapshot()
	hello, _ := json.Marshal(wsEvent{
		Type: "catalog_snapshot",
		Data: CatalogUpdate{Vertical: snap.Vertical, Version: snap.Version, Reason: "connect"},
	})
	cl := newClient(ws)
	cl.send <- hello
	r.register(cl)
	go cl.writePump()

	// Server push only; reads just detect the close.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			r.unregister(cl)
			return nil
		}
	}
}
