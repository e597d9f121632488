package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galactusaurus/roster-opt/internal/generate"
)

func testHub() *Hub {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewHub(log)
}

func TestPublish_WithoutClientsDoesNotBlock(t *testing.T) {
	hub := testHub()
	// No Run loop: the buffered channel absorbs updates and overflow is
	// dropped rather than blocking the generator.
	for i := 0; i < 500; i++ {
		hub.Publish(generate.Progress{Iteration: i})
	}
}

func TestHub_BroadcastsProgressToClient(t *testing.T) {
	hub := testHub()
	go hub.Run()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws/progress", hub.HandleWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the client before broadcasting.
	time.Sleep(100 * time.Millisecond)
	hub.Publish(generate.Progress{
		BatchID:   "batch-1",
		Iteration: 1,
		Requested: 5,
		Accepted:  1,
		Message:   "accepted lineup 1 of 5",
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var p generate.Progress
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "batch-1", p.BatchID)
	assert.Equal(t, 1, p.Accepted)
	assert.Equal(t, 5, p.Requested)
}
