package orderControllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ansh-devx/tim-hortons/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newOrderFeedServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/ws", OrderWebSocketHandler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/ws"
}

func connectedClients() int {
	wsMu.Lock()
	defer wsMu.Unlock()
	return len(wsClients)
}

func TestOrderFeedDeliversNewOrders(t *testing.T) {
	_, url := newOrderFeedServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return connectedClients() > 0 },
		time.Second, 10*time.Millisecond)

	order := models.Order{
		ID:          "feed-order-1",
		OrderNumber: "ORD-20260831120000-abcd1234",
		StoreID:     "store-1",
	}
	broadcastNewOrder(order)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Order
	require.NoError(t, json.Unmarshal(msg, &got))
	require.Equal(t, order.OrderNumber, got.OrderNumber)
	require.Equal(t, order.StoreID, got.StoreID)
}

func TestOrderFeedSurvivesClientChurnDuringBroadcasts(t *testing.T) {
	_, url := newOrderFeedServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				return
			}
			conn.Close()
		}()
	}
	for i := 0; i < 20; i++ {
		broadcastNewOrder(models.Order{OrderNumber: "ORD-churn"})
	}
	wg.Wait()

	require.Eventually(t, func() bool { return connectedClients() == 0 },
		2*time.Second, 10*time.Millisecond)
}
