// Package events names the application events fired over pkg/event and the
// payloads they carry.
package events

// Event names.
const (
	// StockMoved fires after a ledger transaction commits: apply, revise,
	// or reverse. Payload: StockMovement.
	StockMoved = "stock.moved"

	// StockLow fires when a sweep or movement leaves an item at or below
	// its reorder level. Payload: LowStockAlert.
	StockLow = "stock.low"
)

// StockMovement describes one committed ledger transition.
type StockMovement struct {
	Operation       string `json:"operation"` // "apply" | "revise" | "reverse"
	EntryID         uint   `json:"entry_id"`
	StockID         uint   `json:"stock_id"`
	ItemName        string `json:"item_name"`
	QuantityChange  int    `json:"quantity_change"`
	NewQuantity     int    `json:"new_quantity"`
	TransactionType string `json:"transaction_type"`
	ActorID         uint   `json:"actor_id"`
}

// LowStockAlert describes an item sitting at or below its reorder level.
type LowStockAlert struct {
	StockID      uint   `json:"stock_id"`
	ItemName     string `json:"item_name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorder_level"`
}
