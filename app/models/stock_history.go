package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types recorded in the ledger. Incoming entries carry positive
// deltas, outgoing entries negative ones; adjustments may carry either sign.
const (
	TxIncoming   = "incoming"
	TxOutgoing   = "outgoing"
	TxAdjustment = "adjustment"
)

// StockHistory is one signed quantity change against a Stock row.
//
// StockID is a weak reference: deleting the catalog row leaves its history
// behind, and reads use a LEFT JOIN so orphaned entries still render.
// Rows are only ever written by the ledger service, which pairs each write
// with the matching quantity update in one transaction.
type StockHistory struct {
	gorm.Model
	StockID         uint      `gorm:"not null;index" json:"stock_id"`
	QuantityChange  int       `gorm:"not null" json:"quantity_change"`
	TransactionType string    `gorm:"size:50;not null" json:"transaction_type"`
	TransactionDate time.Time `gorm:"not null" json:"transaction_date"`
	Remarks         string    `gorm:"type:text" json:"remarks"`
	Source          string    `gorm:"size:255" json:"source"`
	DocumentRef     string    `gorm:"size:255" json:"document_ref"`
	Location        string    `gorm:"size:255" json:"location"`
}

// MovementView is the denormalised read model returned by the ledger and
// report endpoints: the history row joined with its catalog columns.
// Item fields are nullable so orphaned entries survive the outer join.
type MovementView struct {
	ID              uint      `json:"id"`
	StockID         uint      `json:"stock_id"`
	QuantityChange  int       `json:"quantity_change"`
	TransactionType string    `json:"transaction_type"`
	TransactionDate time.Time `json:"transaction_date"`
	Remarks         string    `json:"remarks"`
	Source          string    `json:"source"`
	DocumentRef     string    `json:"document_ref"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"created_at"`

	ItemName   *string  `json:"item_name"`
	PartNumber *string  `json:"part_number"`
	Category   *string  `json:"category"`
	Supplier   *string  `json:"supplier"`
	Price      *float64 `json:"price"`
}
