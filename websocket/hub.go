package websocket

import (
	"sync"
	"time"

	"github.com/anjiri1684/school_cbt/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventCbtStarted   = "cbt_started"
	EventCbtSubmitted = "cbt_submitted"
)

// writeWait bounds a single write so one stalled client cannot hold up the hub.
const writeWait = 5 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	Close() error
}

// Client is a staff member watching the CBT activity of one class.
type Client struct {
	UserID  uuid.UUID
	ClassID uuid.UUID
	Conn    Conn
}

type CbtEvent struct {
	Type        string    `json:"type"`
	ClassID     uuid.UUID `json:"class_id"`
	ExamID      uuid.UUID `json:"exam_id"`
	StudentID   uuid.UUID `json:"student_id"`
	ResultID    uuid.UUID `json:"cbt_result_id"`
	TriggerType string    `json:"trigger_type,omitempty"`
	At          time.Time `json:"at"`
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan CbtEvent

	mu      sync.RWMutex
	classes map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan CbtEvent, 256),
		classes:    make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// DefaultHub is the hub started by main and fed by the services.
var DefaultHub = NewHub()

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Publish never blocks; events are dropped when the hub is not keeping up.
func (h *Hub) Publish(event CbtEvent) {
	select {
	case h.broadcast <- event:
	default:
		logger.Log.Warn("cbt monitor queue full, dropping event",
			zap.String("type", event.Type), zap.String("cbt_result_id", event.ResultID.String()))
	}
}

// Subscribers reports how many clients watch a class.
func (h *Hub) Subscribers(classID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.classes[classID])
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			logger.Log.Debug("monitor client registered",
				zap.String("user_id", client.UserID.String()), zap.String("class_id", client.ClassID.String()))
			h.mu.Lock()
			if h.classes[client.ClassID] == nil {
				h.classes[client.ClassID] = make(map[*Client]struct{})
			}
			h.classes[client.ClassID][client] = struct{}{}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.remove(client)
		case event := <-h.broadcast:
			h.mu.RLock()
			var failed []*Client
			for client := range h.classes[event.ClassID] {
				if err := write(client.Conn, event); err != nil {
					logger.Log.Warn("error sending cbt event",
						zap.String("user_id", client.UserID.String()), zap.Error(err))
					failed = append(failed, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range failed {
				client.Conn.Close()
				h.remove(client)
			}
		}
	}
}

func write(conn Conn, event CbtEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(event)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if watchers, ok := h.classes[client.ClassID]; ok {
		delete(watchers, client)
		if len(watchers) == 0 {
			delete(h.classes, client.ClassID)
		}
	}
}

func Publish(event CbtEvent) { DefaultHub.Publish(event) }
