// Package listeners wires domain events to their side effects: the live
// websocket feed and the low-stock log. Registration happens once at boot.
package listeners

import (
	"encoding/json"

	"github.com/rpradhan/stockroom/app/events"
	"github.com/rpradhan/stockroom/pkg/event"
	"github.com/rpradhan/stockroom/pkg/logger"
	"github.com/rpradhan/stockroom/pkg/ws"
)

// feedMessage is the envelope pushed to websocket feed subscribers.
type feedMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Register attaches all event listeners. The hub receives every committed
// movement and every low-stock alert as JSON frames.
func Register(hub *ws.Hub) {
	event.Listen(events.StockMoved, func(payload interface{}) {
		broadcast(hub, events.StockMoved, payload)
	})

	event.Listen(events.StockLow, func(payload interface{}) {
		alert, ok := payload.(events.LowStockAlert)
		if ok {
			logger.Warn("stock below reorder level",
				"stock_id", alert.StockID,
				"item", alert.ItemName,
				"quantity", alert.Quantity,
				"reorder_level", alert.ReorderLevel)
		}
		broadcast(hub, events.StockLow, payload)
	})
}

func broadcast(hub *ws.Hub, name string, payload interface{}) {
	data, err := json.Marshal(feedMessage{Event: name, Payload: payload})
	if err != nil {
		logger.Error("listeners: marshal feed message", "event", name, "error", err)
		return
	}
	hub.Broadcast <- data
}
