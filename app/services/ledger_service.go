package services

import (
	"errors"
	"time"

	"github.com/rpradhan/stockroom/app/events"
	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/pkg/event"
	"github.com/rpradhan/stockroom/pkg/metrics"
	"gorm.io/gorm"
)

// LedgerService keeps stock.quantity consistent with the stock_history
// ledger. Every operation is one database transaction that locks the
// affected stock row(s) FOR UPDATE before reading the quantity, so
// concurrent movements against the same item serialise; movements against
// different items proceed independently.
//
// The service performs no authorization: callers hand it an already
// authenticated actor ID which is only attached to the emitted events.
type LedgerService struct {
	db      *gorm.DB
	stocks  *repositories.StockRepository
	history *repositories.HistoryRepository
}

func NewLedgerService(db *gorm.DB, stocks *repositories.StockRepository, history *repositories.HistoryRepository) *LedgerService {
	return &LedgerService{db: db, stocks: stocks, history: history}
}

// MovementInput is the replacement field set for a ledger entry.
type MovementInput struct {
	StockID         uint   `json:"stock_id" validate:"required"`
	QuantityChange  int    `json:"quantity_change" validate:"required"`
	TransactionType string `json:"transaction_type" validate:"required,in=incoming,outgoing,adjustment"`
	TransactionDate string `json:"transaction_date" validate:"required,date"`
	Remarks         string `json:"remarks" validate:"nullable,max=2000"`
	Source          string `json:"source" validate:"nullable,max=255"`
	DocumentRef     string `json:"document_ref" validate:"nullable,max=255"`
	Location        string `json:"location" validate:"nullable,max=255"`
}

var movementDateLayouts = []string{time.RFC3339, "2006-01-02"}

// check enforces the semantic rules the struct tags cannot express:
// incoming entries carry positive deltas, outgoing entries negative ones.
// Runs before any store interaction.
func (in MovementInput) check() (time.Time, error) {
	switch in.TransactionType {
	case models.TxIncoming:
		if in.QuantityChange <= 0 {
			return time.Time{}, validationErr("quantity_change", "incoming movements must have a positive quantity change")
		}
	case models.TxOutgoing:
		if in.QuantityChange >= 0 {
			return time.Time{}, validationErr("quantity_change", "outgoing movements must have a negative quantity change")
		}
	case models.TxAdjustment:
		if in.QuantityChange == 0 {
			return time.Time{}, validationErr("quantity_change", "adjustment must not be zero")
		}
	default:
		return time.Time{}, validationErr("transaction_type", "must be incoming, outgoing, or adjustment")
	}

	for _, layout := range movementDateLayouts {
		if t, err := time.Parse(layout, in.TransactionDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationErr("transaction_date", "must be an RFC3339 timestamp or YYYY-MM-DD date")
}

// Apply records a new movement: locks the stock row, rejects a negative
// result, then writes the new quantity and the ledger row in one commit.
func (s *LedgerService) Apply(actorID uint, in MovementInput) (models.MovementView, error) {
	date, err := in.check()
	if err != nil {
		return models.MovementView{}, err
	}

	var (
		entry models.StockHistory
		moved events.StockMovement
		low   *events.LowStockAlert
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		stock, err := s.stocks.FindForUpdate(tx, in.StockID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return storageErr("lock stock row", err)
		}

		newQty := stock.Quantity + in.QuantityChange
		if newQty < 0 {
			return ErrInsufficientStock
		}

		entry = models.StockHistory{
			StockID:         stock.ID,
			QuantityChange:  in.QuantityChange,
			TransactionType: in.TransactionType,
			TransactionDate: date,
			Remarks:         in.Remarks,
			Source:          in.Source,
			DocumentRef:     in.DocumentRef,
			Location:        in.Location,
		}
		if err := s.history.Insert(tx, &entry); err != nil {
			return storageErr("insert history entry", err)
		}
		if err := s.stocks.SetQuantity(tx, stock.ID, newQty); err != nil {
			return storageErr("update quantity", err)
		}

		moved = events.StockMovement{
			Operation:       "apply",
			EntryID:         entry.ID,
			StockID:         stock.ID,
			ItemName:        stock.Name,
			QuantityChange:  in.QuantityChange,
			NewQuantity:     newQty,
			TransactionType: in.TransactionType,
			ActorID:         actorID,
		}
		low = lowStockAlert(stock, newQty)
		return nil
	})
	if err != nil {
		recordOutcome("apply", err)
		return models.MovementView{}, err
	}

	s.committed(moved, low)
	return s.view(entry.ID)
}

// Revise replaces a ledger entry's fields and rebalances quantities: the
// entry's original effect is undone and the revised effect applied. When the
// revision moves the entry to a different item, both stock rows are locked
// in ascending-ID order and both are rebalanced in the same transaction.
func (s *LedgerService) Revise(actorID, entryID uint, in MovementInput) (models.MovementView, error) {
	date, err := in.check()
	if err != nil {
		return models.MovementView{}, err
	}

	var (
		moved events.StockMovement
		low   *events.LowStockAlert
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.history.FindForUpdate(tx, entryID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		if err != nil {
			return storageErr("lock history entry", err)
		}

		var target models.Stock
		var newQty int

		if entry.StockID == in.StockID {
			stock, err := s.stocks.FindForUpdate(tx, in.StockID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			if err != nil {
				return storageErr("lock stock row", err)
			}

			restored := stock.Quantity - entry.QuantityChange
			newQty = restored + in.QuantityChange
			if newQty < 0 {
				return ErrInsufficientStock
			}
			if err := s.stocks.SetQuantity(tx, stock.ID, newQty); err != nil {
				return storageErr("update quantity", err)
			}
			target = stock
		} else {
			target, newQty, err = s.relocate(tx, entry, in)
			if err != nil {
				return err
			}
		}

		entry.StockID = in.StockID
		entry.QuantityChange = in.QuantityChange
		entry.TransactionType = in.TransactionType
		entry.TransactionDate = date
		entry.Remarks = in.Remarks
		entry.Source = in.Source
		entry.DocumentRef = in.DocumentRef
		entry.Location = in.Location
		if err := s.history.Replace(tx, &entry); err != nil {
			return storageErr("replace history entry", err)
		}

		moved = events.StockMovement{
			Operation:       "revise",
			EntryID:         entry.ID,
			StockID:         target.ID,
			ItemName:        target.Name,
			QuantityChange:  in.QuantityChange,
			NewQuantity:     newQty,
			TransactionType: in.TransactionType,
			ActorID:         actorID,
		}
		low = lowStockAlert(target, newQty)
		return nil
	})
	if err != nil {
		recordOutcome("revise", err)
		return models.MovementView{}, err
	}

	s.committed(moved, low)
	return s.view(entryID)
}

// relocate handles a revision that moves the entry to a different item.
// Rows are locked in ascending-ID order so two concurrent cross-item
// revisions cannot deadlock. If the entry's original item has been deleted
// the entry is orphaned and there is nothing to restore.
func (s *LedgerService) relocate(tx *gorm.DB, entry models.StockHistory, in MovementInput) (models.Stock, int, error) {
	type locked struct {
		stock models.Stock
		err   error
	}

	lock := func(id uint) locked {
		stock, err := s.stocks.FindForUpdate(tx, id)
		return locked{stock: stock, err: err}
	}

	var oldRow, newRow locked
	if entry.StockID < in.StockID {
		oldRow = lock(entry.StockID)
		newRow = lock(in.StockID)
	} else {
		newRow = lock(in.StockID)
		oldRow = lock(entry.StockID)
	}

	if newRow.err != nil {
		if errors.Is(newRow.err, gorm.ErrRecordNotFound) {
			return models.Stock{}, 0, ErrItemNotFound
		}
		return models.Stock{}, 0, storageErr("lock stock row", newRow.err)
	}

	oldFound := true
	if oldRow.err != nil {
		if !errors.Is(oldRow.err, gorm.ErrRecordNotFound) {
			return models.Stock{}, 0, storageErr("lock stock row", oldRow.err)
		}
		oldFound = false
	}

	newQty := newRow.stock.Quantity + in.QuantityChange
	if newQty < 0 {
		return models.Stock{}, 0, ErrInsufficientStock
	}

	if oldFound {
		restored := oldRow.stock.Quantity - entry.QuantityChange
		if restored < 0 {
			return models.Stock{}, 0, ErrInsufficientStock
		}
		if err := s.stocks.SetQuantity(tx, oldRow.stock.ID, restored); err != nil {
			return models.Stock{}, 0, storageErr("update quantity", err)
		}
	}

	if err := s.stocks.SetQuantity(tx, newRow.stock.ID, newQty); err != nil {
		return models.Stock{}, 0, storageErr("update quantity", err)
	}

	return newRow.stock, newQty, nil
}

// Reverse deletes a ledger entry and undoes its effect on the item's
// quantity. Deletion is refused if it would leave the quantity negative.
func (s *LedgerService) Reverse(actorID, entryID uint) error {
	var (
		moved events.StockMovement
		low   *events.LowStockAlert
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.history.FindForUpdate(tx, entryID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		if err != nil {
			return storageErr("lock history entry", err)
		}

		stock, err := s.stocks.FindForUpdate(tx, entry.StockID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return storageErr("lock stock row", err)
		}

		newQty := stock.Quantity - entry.QuantityChange
		if newQty < 0 {
			return ErrInsufficientStock
		}

		if err := s.stocks.SetQuantity(tx, stock.ID, newQty); err != nil {
			return storageErr("update quantity", err)
		}
		if err := s.history.Remove(tx, entry.ID); err != nil {
			return storageErr("delete history entry", err)
		}

		moved = events.StockMovement{
			Operation:       "reverse",
			EntryID:         entry.ID,
			StockID:         stock.ID,
			ItemName:        stock.Name,
			QuantityChange:  -entry.QuantityChange,
			NewQuantity:     newQty,
			TransactionType: entry.TransactionType,
			ActorID:         actorID,
		}
		low = lowStockAlert(stock, newQty)
		return nil
	})
	if err != nil {
		recordOutcome("reverse", err)
		return err
	}

	s.committed(moved, low)
	return nil
}

// ── Post-commit plumbing ─────────────────────────────────────────────────────

func (s *LedgerService) view(entryID uint) (models.MovementView, error) {
	view, err := s.history.View(entryID)
	if err != nil {
		return models.MovementView{}, storageErr("read movement view", err)
	}
	return view, nil
}

func (s *LedgerService) committed(moved events.StockMovement, low *events.LowStockAlert) {
	metrics.LedgerMovements.WithLabelValues(moved.Operation, "ok").Inc()
	event.FireAsync(events.StockMoved, moved)
	if low != nil {
		event.FireAsync(events.StockLow, *low)
	}
}

func lowStockAlert(stock models.Stock, newQty int) *events.LowStockAlert {
	if newQty > stock.ReorderLevel {
		return nil
	}
	return &events.LowStockAlert{
		StockID:      stock.ID,
		ItemName:     stock.Name,
		Quantity:     newQty,
		ReorderLevel: stock.ReorderLevel,
	}
}

func recordOutcome(operation string, err error) {
	outcome := "error"
	switch {
	case errors.Is(err, ErrInsufficientStock):
		outcome = "insufficient_stock"
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrHistoryNotFound):
		outcome = "not_found"
	}
	metrics.LedgerMovements.WithLabelValues(operation, outcome).Inc()
}
