package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-storefront/internal/events"
	ws "github.com/ikkim/udonggeum-storefront/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventController_GetTopics(t *testing.T) {
	channel := events.NewChannel()
	hub := ws.NewHub(channel, events.TopicCartOpen, events.TopicCartChanged)
	go hub.Run()
	t.Cleanup(hub.Stop)

	channel.Subscribe(events.TopicCartOpen, func(interface{}) {})

	controller := NewEventController(hub, channel, []string{"*"})
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/events/topics", controller.GetTopics)
	router.GET("/ws", controller.WebSocketHandler)

	w := doJSON(router, http.MethodGet, "/events/topics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"topics":{"cartOpen":2,"cartChanged":1},"clients":0}`, w.Body.String())

	// A plain request cannot be upgraded
	w = doJSON(router, http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
