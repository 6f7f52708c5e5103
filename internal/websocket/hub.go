package websocket

import (
	"encoding/json"
	"time"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/pkg/logger"
)

// StatusEvent is pushed to every connected client when an order changes
// status.
type StatusEvent struct {
	Type    string            `json:"type"`
	OrderID uint              `json:"order_id"`
	Status  model.OrderStatus `json:"status"`
	At      time.Time         `json:"at"`
}

// Hub fans order-status events out to all connected clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Info("Websocket client connected", map[string]interface{}{
				"clients": len(h.clients),
			})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Info("Websocket client disconnected", map[string]interface{}{
					"clients": len(h.clients),
				})
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// PublishOrderStatus implements service.StatusPublisher.
func (h *Hub) PublishOrderStatus(orderID uint, status model.OrderStatus) {
	event := StatusEvent{
		Type:    "order_status",
		OrderID: orderID,
		Status:  status,
		At:      time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order status event", err, map[string]interface{}{
			"order_id": orderID,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Order status event dropped: broadcast buffer full", map[string]interface{}{
			"order_id": orderID,
		})
	}
}
