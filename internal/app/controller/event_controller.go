package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/udonggeum-storefront/internal/events"
	"github.com/ikkim/udonggeum-storefront/internal/middleware"
	ws "github.com/ikkim/udonggeum-storefront/internal/websocket"
)

type EventController struct {
	hub      *ws.Hub
	events   *events.Channel
	upgrader *gorillaws.Upgrader
}

func NewEventController(hub *ws.Hub, channel *events.Channel, allowedOrigins []string) *EventController {
	return &EventController{
		hub:      hub,
		events:   channel,
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// WebSocketHandler streams event-channel topics to the UI
// GET /ws
func (ctrl *EventController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn})
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"client_id": client.ID,
	})
}

// GetTopics lists topics with their subscriber counts
// GET /api/v1/events/topics
func (ctrl *EventController) GetTopics(c *gin.Context) {
	topics := ctrl.events.Topics()
	counts := make(map[string]int, len(topics))
	for _, topic := range topics {
		counts[topic] = ctrl.events.SubscriberCount(topic)
	}

	c.JSON(http.StatusOK, gin.H{
		"topics":  counts,
		"clients": ctrl.hub.ClientCount(),
	})
}
