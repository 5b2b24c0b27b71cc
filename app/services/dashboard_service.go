package services

import (
	"github.com/rpradhan/stockroom/app/events"
	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/config"
	"github.com/rpradhan/stockroom/pkg/cache"
	"github.com/rpradhan/stockroom/pkg/event"
	"github.com/rpradhan/stockroom/pkg/logger"
	"github.com/rpradhan/stockroom/pkg/metrics"
)

const dashboardCacheKey = "dashboard:summary"

// Summary is the aggregate view behind the dashboard page.
type Summary struct {
	TotalItems      int64                 `json:"total_items"`
	TotalQuantity   int64                 `json:"total_quantity"`
	TotalSuppliers  int64                 `json:"total_suppliers"`
	LowStock        []models.Stock        `json:"low_stock"`
	RecentMovements []models.MovementView `json:"recent_movements"`
}

// DashboardService serves cached aggregates and runs the periodic low-stock
// sweep. The cache is invalidated whenever the ledger commits a movement.
type DashboardService struct {
	stocks    *repositories.StockRepository
	history   *repositories.HistoryRepository
	suppliers *repositories.SupplierRepository
}

func NewDashboardService(stocks *repositories.StockRepository, history *repositories.HistoryRepository, suppliers *repositories.SupplierRepository) *DashboardService {
	s := &DashboardService{stocks: stocks, history: history, suppliers: suppliers}

	// Every committed movement makes the cached aggregates stale.
	event.Listen(events.StockMoved, func(interface{}) {
		if err := cache.Del(dashboardCacheKey); err != nil {
			logger.Warn("dashboard: cache invalidation failed", "error", err)
		}
	})

	return s
}

// Summary returns the dashboard aggregates, from Redis when fresh.
func (s *DashboardService) Summary() (Summary, error) {
	var summary Summary
	if cache.Get(dashboardCacheKey, &summary) {
		metrics.CacheHits.Inc()
		return summary, nil
	}
	metrics.CacheMisses.Inc()

	totalItems, err := s.stocks.Count()
	if err != nil {
		return Summary{}, storageErr("count stock", err)
	}
	totalQty, err := s.stocks.TotalQuantity()
	if err != nil {
		return Summary{}, storageErr("sum quantities", err)
	}
	lowStock, err := s.stocks.LowStock(10)
	if err != nil {
		return Summary{}, storageErr("list low stock", err)
	}
	recent, err := s.history.Recent(10)
	if err != nil {
		return Summary{}, storageErr("list recent movements", err)
	}

	var totalSuppliers int64
	if _, p, err := s.suppliers.List("", 1, 1); err == nil {
		totalSuppliers = p.Total
	}

	summary = Summary{
		TotalItems:      totalItems,
		TotalQuantity:   totalQty,
		TotalSuppliers:  totalSuppliers,
		LowStock:        lowStock,
		RecentMovements: recent,
	}

	if err := cache.Set(dashboardCacheKey, summary, config.DashboardCacheTTL()); err != nil {
		logger.Warn("dashboard: cache write failed", "error", err)
	}
	return summary, nil
}

// SweepLowStock refreshes the low-stock gauge and fires an alert per item
// sitting at or below its reorder level. Run periodically via pkg/schedule.
func (s *DashboardService) SweepLowStock() {
	items, err := s.stocks.LowStock(100)
	if err != nil {
		logger.Error("dashboard: low-stock sweep failed", "error", err)
		return
	}

	metrics.LowStockItems.Set(float64(len(items)))

	for _, item := range items {
		event.FireAsync(events.StockLow, events.LowStockAlert{
			StockID:      item.ID,
			ItemName:     item.Name,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
		})
	}
}
