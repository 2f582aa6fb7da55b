// Package ws fans out server events to websocket subscribers grouped in
// rooms.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 64
	writeWait    = 10 * time.Second
	pongWait     = 70 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 4 << 10
)

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

func (h *Hub) EnsureRoom(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[id]; ok {
		return r
	}
	r := &Room{
		id:      id,
		clients: make(map[*Client]struct{}),
	}
	h.rooms[id] = r
	return r
}

func (h *Hub) CloseRoom(id string) {
	h.mu.Lock()
	r, ok := h.rooms[id]
	delete(h.rooms, id)
	h.mu.Unlock()
	if ok {
		r.closeAll()
	}
}

// Close disconnects every client of every room.
func (h *Hub) Close() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()
	for _, r := range rooms {
		r.closeAll()
	}
}

// Broadcast is a no-op for rooms nobody joined.
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.mu.RLock()
	r := h.rooms[roomID]
	h.mu.RUnlock()
	if r != nil {
		r.Broadcast(payload)
	}
}

func (h *Hub) Count(roomID string) int {
	h.mu.RLock()
	r := h.rooms[roomID]
	h.mu.RUnlock()
	if r == nil {
		return 0
	}
	return r.Len()
}

// Serve upgrades the request and blocks until the client goes away.
// Incoming text frames are discarded; reading only keeps the connection
// alive.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, roomID, userID string) error {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	room := h.EnsureRoom(roomID)
	c := NewClient(conn, room, userID)
	room.Add(c)

	go c.WritePump()
	c.ReadPump(nil)
	return nil
}

type Room struct {
	id      string
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func (r *Room) Add(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

func (r *Room) Remove(c *Client) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
}

func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast drops clients whose send buffer is full.
func (r *Room) Broadcast(msg []byte) {
	var slow []*Client
	r.mu.RLock()
	for c := range r.clients {
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range slow {
		c.Close()
	}
}

func (r *Room) closeAll() {
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.RUnlock()
	for _, c := range clients {
		c.Close()
	}
}

type Client struct {
	conn *websocket.Conn
	room *Room
	uid  string
	Send chan []byte

	once sync.Once
	done chan struct{}
}

func NewClient(conn *websocket.Conn, room *Room, userID string) *Client {
	return &Client{
		conn: conn,
		room: room,
		uid:  userID,
		Send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Client) UserID() string { return c.uid }

// Close is idempotent. Send is never closed, so a concurrent Broadcast
// cannot panic.
func (c *Client) Close() {
	c.once.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		if c.room != nil {
			c.room.Remove(c)
		}
		close(c.done)
	})
}

func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) ReadPump(onIncoming func(fromUserID string, message []byte)) {
	defer c.Close()
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt == websocket.TextMessage && onIncoming != nil {
			onIncoming(c.uid, msg)
		}
	}
}

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}
