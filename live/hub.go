package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/raisin-tracker/utils"
)

// Event types
const (
	EventEmployeeCreated  = "employee_created"
	EventDailyWorkCreated = "daily_work_created"
	EventDailyWorkUpdated = "daily_work_updated"
	EventDailyWorkDeleted = "daily_work_deleted"
	EventDashboardStats   = "dashboard_stats"
)

const (
	writeWait = 5 * time.Second

	// sendBuffer is how many messages may queue for one client before it is
	// considered stalled and dropped.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	closeCode int
}

// Hub holds the connected dashboard clients and fans messages out to them.
// Broadcast never blocks on the network: every client has its own queue
// drained by a writer goroutine.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
	writers sync.WaitGroup
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds conn to the broadcast set and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), closeCode: websocket.CloseNormalClosure}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	h.writers.Add(1)
	go h.writePump(c)
}

// Unregister removes conn; its writer closes the connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn, websocket.CloseNormalClosure)
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. Clients whose queue is full are
// dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", event).Error("marshal live message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			utils.InfoLogger.WithFields(logrus.Fields{
				"event":  event,
				"remote": conn.RemoteAddr().String(),
			}).Warn("dropping stalled live client")
			h.drop(conn, websocket.ClosePolicyViolation)
		}
	}
}

// Close disconnects every client and waits for their writers to finish.
func (h *Hub) Close() {
	h.mutex.Lock()
	for conn := range h.clients {
		h.drop(conn, websocket.CloseGoingAway)
	}
	h.mutex.Unlock()

	h.writers.Wait()
}

// drop must be called with mutex held.
func (h *Hub) drop(conn *websocket.Conn, code int) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	c.closeCode = code
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	defer h.writers.Done()
	defer c.conn.Close()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.WithField("remote", c.conn.RemoteAddr().String()).
				WithError(err).Warn("dropping live client")
			h.Unregister(c.conn)
			for range c.send {
			}
			return
		}
	}

	reason := ""
	if c.closeCode == websocket.CloseGoingAway {
		reason = "server shutting down"
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(c.closeCode, reason),
		time.Now().Add(writeWait))
}
