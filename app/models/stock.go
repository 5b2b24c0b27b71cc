package models

import "gorm.io/gorm"

// Stock status values. Status is a projection of Quantity against
// ReorderLevel computed on read; it is never stored and cannot be edited.
const (
	StatusAvailable  = "Available"
	StatusLowStock   = "LowStock"
	StatusOutOfStock = "OutOfStock"
)

// Stock is one catalog SKU with its current on-hand quantity.
//
// Quantity is owned by the ledger: every change goes through a stock_history
// row written in the same transaction. Catalog edits (StockPatch) can touch
// every other column but never Quantity.
type Stock struct {
	gorm.Model
	Name         string  `gorm:"size:255;not null;index" json:"name"`
	PartNumber   string  `gorm:"size:100;uniqueIndex" json:"part_number"`
	Category     string  `gorm:"size:100;index" json:"category"`
	Quantity     int     `gorm:"not null;default:0" json:"quantity"`
	Supplier     string  `gorm:"size:255" json:"supplier"` // free text, not a foreign key
	UOM          string  `gorm:"size:50" json:"uom"`
	ReorderLevel int     `gorm:"not null;default:0" json:"reorder_level"`
	Remarks      string  `gorm:"type:text" json:"remarks"`
	Price        float64 `gorm:"not null;default:0" json:"price"`
	Status       string  `gorm:"-" json:"status"`
}

// AfterFind derives Status so every read-side representation carries it.
func (s *Stock) AfterFind(*gorm.DB) error {
	s.Status = s.DeriveStatus()
	return nil
}

// DeriveStatus projects the advisory status from the current quantity.
func (s *Stock) DeriveStatus() string {
	switch {
	case s.Quantity <= 0:
		return StatusOutOfStock
	case s.Quantity <= s.ReorderLevel:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// StockPatch is a partial catalog update: only non-nil fields are written.
// Quantity is deliberately absent; it moves only through the ledger.
type StockPatch struct {
	Name         *string  `json:"name"`
	PartNumber   *string  `json:"part_number"`
	Category     *string  `json:"category"`
	Supplier     *string  `json:"supplier"`
	UOM          *string  `json:"uom"`
	ReorderLevel *int     `json:"reorder_level"`
	Remarks      *string  `json:"remarks"`
	Price        *float64 `json:"price"`
}

// Changes returns the column assignments the patch carries.
func (p StockPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.PartNumber != nil {
		changes["part_number"] = *p.PartNumber
	}
	if p.Category != nil {
		changes["category"] = *p.Category
	}
	if p.Supplier != nil {
		changes["supplier"] = *p.Supplier
	}
	if p.UOM != nil {
		changes["uom"] = *p.UOM
	}
	if p.ReorderLevel != nil {
		changes["reorder_level"] = *p.ReorderLevel
	}
	if p.Remarks != nil {
		changes["remarks"] = *p.Remarks
	}
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	return changes
}
