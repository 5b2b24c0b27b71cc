package repositories

import (
	"time"

	"github.com/rpradhan/stockroom/app/models"
	"gorm.io/gorm"
)

// HistoryRepository handles database operations for the stock ledger.
//
// Mutations are transaction-scoped (the ledger service owns the commit);
// reads join the catalog with a LEFT JOIN so entries whose item has been
// deleted still render.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const movementColumns = `stock_histories.id, stock_histories.stock_id,
stock_histories.quantity_change, stock_histories.transaction_type,
stock_histories.transaction_date, stock_histories.remarks,
stock_histories.source, stock_histories.document_ref,
stock_histories.location, stock_histories.created_at,
stocks.name AS item_name, stocks.part_number, stocks.category,
stocks.supplier, stocks.price`

func (r *HistoryRepository) joined(db *gorm.DB) *gorm.DB {
	return db.Model(&models.StockHistory{}).
		Select(movementColumns).
		Joins("LEFT JOIN stocks ON stocks.id = stock_histories.stock_id AND stocks.deleted_at IS NULL")
}

// ── Transaction-scoped mutations ─────────────────────────────────────────────

// FindForUpdate reads a ledger row under an exclusive row lock.
func (r *HistoryRepository) FindForUpdate(tx *gorm.DB, id uint) (models.StockHistory, error) {
	var entry models.StockHistory
	err := lockForUpdate(tx).First(&entry, id).Error
	return entry, err
}

// Insert writes a new ledger row inside the caller's transaction.
func (r *HistoryRepository) Insert(tx *gorm.DB, entry *models.StockHistory) error {
	return tx.Create(entry).Error
}

// Replace overwrites every mutable field of an existing ledger row.
func (r *HistoryRepository) Replace(tx *gorm.DB, entry *models.StockHistory) error {
	return tx.Model(&models.StockHistory{}).Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"stock_id":         entry.StockID,
			"quantity_change":  entry.QuantityChange,
			"transaction_type": entry.TransactionType,
			"transaction_date": entry.TransactionDate,
			"remarks":          entry.Remarks,
			"source":           entry.Source,
			"document_ref":     entry.DocumentRef,
			"location":         entry.Location,
		}).Error
}

// Remove hard-deletes a ledger row. A reversed entry must not linger as a
// soft-deleted row or the per-item delta sum stops matching the quantity.
func (r *HistoryRepository) Remove(tx *gorm.DB, id uint) error {
	return tx.Unscoped().Delete(&models.StockHistory{}, id).Error
}

// SetDocumentRef stores the uploaded document reference on an entry.
func (r *HistoryRepository) SetDocumentRef(id uint, ref string) error {
	result := r.db.Model(&models.StockHistory{}).Where("id = ?", id).
		Update("document_ref", ref)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── Read side ────────────────────────────────────────────────────────────────

// View returns the joined movement view for one ledger entry.
func (r *HistoryRepository) View(id uint) (models.MovementView, error) {
	var view models.MovementView
	err := r.joined(r.db).Where("stock_histories.id = ?", id).
		Take(&view).Error
	return view, err
}

// MovementFilter narrows ListMovements results.
type MovementFilter struct {
	StockID uint
	Type    string
	From    time.Time
	To      time.Time
	Page    int
	Limit   int
}

// ListMovements returns the joined ledger, newest business date first.
func (r *HistoryRepository) ListMovements(filter MovementFilter) ([]models.MovementView, Pagination, error) {
	query := r.joined(r.db)

	if filter.StockID != 0 {
		query = query.Where("stock_histories.stock_id = ?", filter.StockID)
	}
	if filter.Type != "" {
		query = query.Where("stock_histories.transaction_type = ?", filter.Type)
	}
	if !filter.From.IsZero() {
		query = query.Where("stock_histories.transaction_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("stock_histories.transaction_date <= ?", filter.To)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var views []models.MovementView
	err := query.Order("stock_histories.transaction_date DESC, stock_histories.id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	return views, Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// SumDeltas returns the sum of all deltas recorded against one item.
// The ledger invariant says this always equals the item's quantity.
func (r *HistoryRepository) SumDeltas(stockID uint) (int, error) {
	var sum *int
	err := r.db.Model(&models.StockHistory{}).
		Where("stock_id = ?", stockID).
		Select("SUM(quantity_change)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// Recent returns the latest n movements for the dashboard.
func (r *HistoryRepository) Recent(n int) ([]models.MovementView, error) {
	var views []models.MovementView
	err := r.joined(r.db).
		Order("stock_histories.created_at DESC").Limit(n).
		Scan(&views).Error
	return views, err
}
