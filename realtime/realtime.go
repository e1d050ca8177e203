package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"viemind/metrics"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is the message pushed to every client watching a competition
type Event struct {
	CompetitionID string      `json:"competition_id"`
	Type          string      `json:"type"` // "submission.created", "submission.scored", "participant.joined"
	Payload       interface{} `json:"payload"`
	SentAt        time.Time   `json:"sent_at"`
}

type client struct {
	competitionID string
	conn          *websocket.Conn
	send          chan Event
}

// Hub fans out competition events to websocket clients
type Hub struct {
	clients   map[string]map[*client]bool // competition ID -> connected clients
	broadcast chan Event
	mu        sync.Mutex
	upgrader  websocket.Upgrader
}

// NewHub creates a hub accepting connections from the given origins ("*" accepts any)
func NewHub(allowedOrigins []string) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Hub{
		clients:   make(map[string]map[*client]bool),
		broadcast: make(chan Event, 256),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// Run dispatches broadcast events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case event := <-h.broadcast:
			h.dispatch(event)
		}
	}
}

// Broadcast queues an event for the clients of a competition. It never blocks:
// events are dropped when the queue is full.
func (h *Hub) Broadcast(competitionID, eventType string, payload interface{}) {
	event := Event{
		CompetitionID: competitionID,
		Type:          eventType,
		Payload:       payload,
		SentAt:        time.Now().UTC(),
	}
	select {
	case h.broadcast <- event:
	default:
		log.Warnf("realtime: queue full, dropping %s for competition %s", eventType, competitionID)
	}
}

// ClientCount returns the number of clients watching a competition
func (h *Hub) ClientCount(competitionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[competitionID])
}

func (h *Hub) dispatch(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[event.CompetitionID] {
		select {
		case c.send <- event:
		default:
			// slow consumer
			h.removeLocked(c)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	if h.clients[c.competitionID] == nil {
		h.clients[c.competitionID] = make(map[*client]bool)
	}
	h.clients[c.competitionID][c] = true
	h.mu.Unlock()
	metrics.RealtimeClients.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	clients, exists := h.clients[c.competitionID]
	if !exists || !clients[c] {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, c.competitionID)
	}
	close(c.send)
	metrics.RealtimeClients.Dec()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for c := range clients {
			h.removeLocked(c)
		}
	}
}

// ServeWS upgrades the request and streams the events of competitionID until
// the client goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, competitionID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{competitionID: competitionID, conn: conn, send: make(chan Event, sendBuffer)}
	h.register(c)

	go c.writePump()
	c.readPump(h)
	return nil
}

// readPump only consumes control frames; clients never send events
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("realtime: read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Debugf("realtime: write error: %v", err)
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
