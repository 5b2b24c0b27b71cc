package services

import (
	"errors"
	"time"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"gorm.io/gorm"
)

// StockService owns the catalog. Quantity is deliberately outside its reach:
// an opening quantity on create is recorded as an adjustment movement through
// the ledger, and patches cannot name the quantity column at all.
type StockService struct {
	stocks *repositories.StockRepository
	ledger *LedgerService
}

func NewStockService(stocks *repositories.StockRepository, ledger *LedgerService) *StockService {
	return &StockService{stocks: stocks, ledger: ledger}
}

// StockInput creates a catalog row.
type StockInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=255"`
	PartNumber      string  `json:"part_number" validate:"required,max=100"`
	Category        string  `json:"category" validate:"nullable,max=100"`
	Supplier        string  `json:"supplier" validate:"nullable,max=255"`
	UOM             string  `json:"uom" validate:"nullable,max=50"`
	ReorderLevel    int     `json:"reorder_level" validate:"nullable,gte=0"`
	Remarks         string  `json:"remarks" validate:"nullable,max=2000"`
	Price           float64 `json:"price" validate:"nullable,gte=0"`
	OpeningQuantity int     `json:"opening_quantity" validate:"nullable,gte=0"`
}

// Create inserts the row with quantity zero, then books any opening quantity
// as an adjustment so the ledger stays the single source of quantity truth.
func (s *StockService) Create(actorID uint, in StockInput) (models.Stock, error) {
	stock := models.Stock{
		Name:         in.Name,
		PartNumber:   in.PartNumber,
		Category:     in.Category,
		Supplier:     in.Supplier,
		UOM:          in.UOM,
		ReorderLevel: in.ReorderLevel,
		Remarks:      in.Remarks,
		Price:        in.Price,
	}
	if err := s.stocks.Create(&stock); err != nil {
		return models.Stock{}, storageErr("create stock", err)
	}

	if in.OpeningQuantity > 0 {
		_, err := s.ledger.Apply(actorID, MovementInput{
			StockID:         stock.ID,
			QuantityChange:  in.OpeningQuantity,
			TransactionType: models.TxAdjustment,
			TransactionDate: time.Now().Format("2006-01-02"),
			Remarks:         "opening balance",
		})
		if err != nil {
			return models.Stock{}, err
		}
		stock.Quantity = in.OpeningQuantity
	}

	stock.Status = stock.DeriveStatus()
	return stock, nil
}

func (s *StockService) Get(id uint) (models.Stock, error) {
	stock, err := s.stocks.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Stock{}, ErrItemNotFound
	}
	if err != nil {
		return models.Stock{}, storageErr("find stock", err)
	}
	return stock, nil
}

// Patch applies a partial catalog update; only provided fields change.
func (s *StockService) Patch(id uint, patch models.StockPatch) (models.Stock, error) {
	err := s.stocks.Patch(id, patch)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Stock{}, ErrItemNotFound
	}
	if err != nil {
		return models.Stock{}, storageErr("patch stock", err)
	}
	return s.Get(id)
}

// Delete soft-deletes the catalog row. History rows referencing it stay
// behind and keep rendering through the report outer join.
func (s *StockService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.stocks.Delete(id); err != nil {
		return storageErr("delete stock", err)
	}
	return nil
}

func (s *StockService) List(filter repositories.StockFilter) ([]models.Stock, repositories.Pagination, error) {
	stocks, p, err := s.stocks.List(filter)
	if err != nil {
		return nil, repositories.Pagination{}, storageErr("list stock", err)
	}
	return stocks, p, err
}
