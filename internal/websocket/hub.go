package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/udonggeum-storefront/internal/events"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
)

const (
	maxMessagesPerSecond = 10
	sendBufferSize       = 256
)

// ClientMessage is what a UI client sends: a request to publish on a topic.
type ClientMessage struct {
	Type    string          `json:"type"` // publish
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is what the hub pushes for every forwarded topic.
type ServerMessage struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client is one websocket session.
type Client struct {
	ID            string
	Hub           *Hub
	Conn          *Conn
	Send          chan []byte
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn) *Client {
	return &Client{
		ID:            uuid.NewString(),
		Hub:           hub,
		Conn:          conn,
		Send:          make(chan []byte, sendBufferSize),
		LastResetTime: time.Now(),
	}
}

// Hub bridges event-channel topics to connected UI clients and lets clients
// publish on the same topics.
type Hub struct {
	events *events.Channel
	topics map[string]bool

	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	unsubscribe []func()

	mu sync.RWMutex
}

// NewHub forwards every publish on topics to all clients. Clients may publish only
// on those same topics.
func NewHub(channel *events.Channel, topics ...string) *Hub {
	h := &Hub{
		events:     channel,
		topics:     make(map[string]bool, len(topics)),
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, topic := range topics {
		h.topics[topic] = true
		topic := topic
		h.unsubscribe = append(h.unsubscribe, channel.Subscribe(topic, func(payload interface{}) {
			h.SendToAll(ServerMessage{Topic: topic, Payload: payload})
		}))
	}
	return h
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"client_id": client.ID,
				"clients":   total,
			})

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"client_id": client.ID,
					})
				}
			}
			h.mu.RUnlock()

		case <-h.stop:
			for _, unsub := range h.unsubscribe {
				unsub()
			}
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop disconnects every client and waits for Run to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	remaining := len(h.clients)
	h.mu.Unlock()

	if ok {
		logger.Info("WebSocket client unregistered", map[string]interface{}{
			"client_id": client.ID,
			"clients":   remaining,
		})
	}
}

// SendToAll queues message for every client. A full broadcast queue drops it.
func (h *Hub) SendToAll(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, message dropped", nil)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case <-h.stop:
		close(client.Send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.stop:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage publishes a client's message on the event channel after
// rate limiting and topic checks.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"client_id": client.ID,
			"count":     count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"client_id": client.ID,
			"error":     err.Error(),
		})
		return
	}

	if msg.Type != "publish" || !h.topics[msg.Topic] {
		logger.Warn("Ignored client message", map[string]interface{}{
			"client_id": client.ID,
			"type":      msg.Type,
			"topic":     msg.Topic,
		})
		return
	}

	var payload interface{}
	if len(msg.Payload) > 0 {
		_ = json.Unmarshal(msg.Payload, &payload)
	}
	h.events.Publish(msg.Topic, payload)
}
