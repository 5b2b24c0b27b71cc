package repositories

import (
	"github.com/rpradhan/stockroom/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository handles database operations for the stock catalog.
//
// Quantity writes are transaction-scoped: FindForUpdate and SetQuantity take
// the caller's tx handle so the ledger service can pair them with history
// writes under one commit.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// lockForUpdate adds SELECT ... FOR UPDATE on engines that support row locks.
// SQLite has no row-lock syntax and serialises writers at the database level,
// so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FindForUpdate reads a stock row under an exclusive row lock held until the
// transaction commits or rolls back.
func (r *StockRepository) FindForUpdate(tx *gorm.DB, id uint) (models.Stock, error) {
	var stock models.Stock
	err := lockForUpdate(tx).First(&stock, id).Error
	return stock, err
}

// SetQuantity writes the new on-hand quantity inside the caller's transaction.
func (r *StockRepository) SetQuantity(tx *gorm.DB, id uint, quantity int) error {
	return tx.Model(&models.Stock{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

// ── Catalog reads and writes (outside the ledger) ────────────────────────────

func (r *StockRepository) Create(stock *models.Stock) error {
	return r.db.Create(stock).Error
}

func (r *StockRepository) FindByID(id uint) (models.Stock, error) {
	var stock models.Stock
	err := r.db.First(&stock, id).Error
	return stock, err
}

// Patch applies only the fields the patch carries. Quantity is not part of
// StockPatch, so catalog edits can never bypass the ledger.
func (r *StockRepository) Patch(id uint, patch models.StockPatch) error {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil
	}

	result := r.db.Model(&models.Stock{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StockRepository) Delete(id uint) error {
	return r.db.Delete(&models.Stock{}, id).Error
}

// StockFilter narrows List results.
type StockFilter struct {
	Search   string // matches name or part number
	Category string
	Supplier string
	Page     int
	Limit    int
}

// List returns catalog rows matching the filter.
func (r *StockRepository) List(filter StockFilter) ([]models.Stock, Pagination, error) {
	query := r.db.Model(&models.Stock{}).Order("name")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR part_number LIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Supplier != "" {
		query = query.Where("supplier = ?", filter.Supplier)
	}

	var stocks []models.Stock
	p, err := paginate(query, filter.Page, filter.Limit, &stocks)
	return stocks, p, err
}

// LowStock returns rows at or below their reorder level.
func (r *StockRepository) LowStock(limit int) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.Where("quantity <= reorder_level").
		Order("quantity").Limit(limit).Find(&stocks).Error
	return stocks, err
}

// Count returns the number of tracked SKUs.
func (r *StockRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Stock{}).Count(&n).Error
	return n, err
}

// TotalQuantity returns the summed on-hand quantity across the catalog.
func (r *StockRepository) TotalQuantity() (int64, error) {
	var sum *int64
	err := r.db.Model(&models.Stock{}).Select("SUM(quantity)").Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}
