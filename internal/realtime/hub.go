package realtime

import "sync"

// Conn is one live websocket connection bound to a user. A user may hold
// several at once (multiple tabs or devices).
type Conn struct {
	ID     string
	UserID uint
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

// NewConn creates a connection with a buffered send channel.
func NewConn(id string, userID uint) *Conn {
	return &Conn{
		ID:     id,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

// Close closes the send channel exactly once.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// trySend enqueues data for the write pump without blocking. Returns false
// when the connection is closed or its buffer is full. Sharing the mutex with
// Close means a concurrent disconnect can never close the channel between the
// closed check and the send.
func (c *Conn) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Hub maps user IDs to their live connections. It is process-local state with
// no durability: a restart drops every registration and clients rejoin.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint]map[string]*Conn
	owner  map[string]uint // connection ID -> bound user, for cleanup on disconnect
}

func NewHub() *Hub {
	return &Hub{
		byUser: make(map[uint]map[string]*Conn),
		owner:  make(map[string]uint),
	}
}

// Join binds a connection to its user. A zero user ID is silently ignored.
// If the connection ID is already bound to a different user, the last join
// wins and the previous binding is dropped.
func (h *Hub) Join(c *Conn) {
	if c == nil || c.UserID == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.owner[c.ID]; ok && prev != c.UserID {
		h.removeLocked(c.ID, prev)
	}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[string]*Conn)
	}
	h.byUser[c.UserID][c.ID] = c
	h.owner[c.ID] = c.UserID
}

// Leave removes a connection wherever it is registered. Unknown connection
// IDs are a silent no-op, so disconnect is always safe to call.
func (h *Hub) Leave(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userID, ok := h.owner[connID]
	if !ok {
		return
	}
	h.removeLocked(connID, userID)
}

func (h *Hub) removeLocked(connID string, userID uint) {
	delete(h.owner, connID)
	if m := h.byUser[userID]; m != nil {
		delete(m, connID)
		if len(m) == 0 {
			delete(h.byUser, userID)
		}
	}
}

// ConnectionCount returns how many live connections the user has.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// Deliver pushes raw bytes to every connection of the user without blocking;
// a connection that is closed or has a full send buffer misses the frame.
// Returns true when at least one connection received the payload.
func (h *Hub) Deliver(userID uint, data []byte) bool {
	h.mu.RLock()
	m := h.byUser[userID]
	conns := make([]*Conn, 0, len(m))
	for _, c := range m {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	delivered := false
	for _, c := range conns {
		if c.trySend(data) {
			delivered = true
		}
	}
	return delivered
}
