package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "papelaria_ws_clients",
	Help: "Open websocket connections.",
})

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event is pushed to every connection of the owning user.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type subscription struct {
	conn   Conn
	userID string
}

type envelope struct {
	userID string
	msg    []byte
}

// Hub fans tenant events out to that tenant's open connections.
type Hub struct {
	clients    map[Conn]string
	register   chan subscription
	unregister chan Conn
	broadcast  chan envelope
	done       chan struct{}
	mutex      sync.Mutex
	log        logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[Conn]string),
		register:   make(chan subscription),
		unregister: make(chan Conn),
		broadcast:  make(chan envelope, 256),
		done:       make(chan struct{}),
		log:        log.WithField("component", "ws"),
	}
}

// Register subscribes conn to userID's events. After Run has returned the
// connection is closed instead.
func (h *Hub) Register(conn Conn, userID string) {
	select {
	case h.register <- subscription{conn: conn, userID: userID}:
	case <-h.done:
		conn.Close()
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues ev for userID's connections. It never blocks the caller;
// events are dropped when the queue is full.
func (h *Hub) Publish(userID string, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Error("Failed to encode event")
		return
	}
	select {
	case h.broadcast <- envelope{userID: userID, msg: msg}:
	default:
		h.log.WithField("user_id", userID).Warn("Event queue full, dropping event")
	}
}

// Clients reports how many connections userID has open.
func (h *Hub) Clients(userID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, owner := range h.clients {
		if owner == userID {
			n++
		}
	}
	return n
}

// Run serves the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			connectedClients.Set(0)
			h.mutex.Unlock()
			return

		case sub := <-h.register:
			h.mutex.Lock()
			h.clients[sub.conn] = sub.userID
			connectedClients.Inc()
			h.mutex.Unlock()
			h.log.WithField("user_id", sub.userID).Info("New WS Client Connected")

		case conn := <-h.unregister:
			h.mutex.Lock()
			h.drop(conn)
			h.mutex.Unlock()

		case env := <-h.broadcast:
			h.mutex.Lock()
			for conn, owner := range h.clients {
				if owner != env.userID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, env.msg); err != nil {
					h.drop(conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// drop must be called with the mutex held.
func (h *Hub) drop(conn Conn) {
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		connectedClients.Dec()
	}
}
