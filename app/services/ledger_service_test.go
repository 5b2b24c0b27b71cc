package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/services"
)

// newTestDB opens an in-memory sqlite database limited to one connection so
// transactions serialise the same way row locks do on a server database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Supplier{}, &models.Stock{}, &models.StockHistory{},
	))
	return db
}

type ledgerFixture struct {
	db      *gorm.DB
	stocks  *repositories.StockRepository
	history *repositories.HistoryRepository
	ledger  *services.LedgerService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	db := newTestDB(t)
	stocks := repositories.NewStockRepository(db)
	history := repositories.NewHistoryRepository(db)
	return &ledgerFixture{
		db:      db,
		stocks:  stocks,
		history: history,
		ledger:  services.NewLedgerService(db, stocks, history),
	}
}

func (f *ledgerFixture) createStock(t *testing.T, name string, qty int) models.Stock {
	t.Helper()
	stock := models.Stock{Name: name, PartNumber: "PN-" + name, ReorderLevel: 5}
	require.NoError(t, f.stocks.Create(&stock))
	if qty != 0 {
		_, err := f.ledger.Apply(1, movement(stock.ID, qty, models.TxAdjustment))
		require.NoError(t, err)
	}
	return stock
}

func (f *ledgerFixture) quantity(t *testing.T, id uint) int {
	t.Helper()
	stock, err := f.stocks.FindByID(id)
	require.NoError(t, err)
	return stock.Quantity
}

// requireInvariant asserts the ledger's core guarantee: the item's quantity
// equals the sum of its history deltas.
func (f *ledgerFixture) requireInvariant(t *testing.T, id uint) {
	t.Helper()
	sum, err := f.history.SumDeltas(id)
	require.NoError(t, err)
	require.Equal(t, f.quantity(t, id), sum)
}

func movement(stockID uint, delta int, txType string) services.MovementInput {
	return services.MovementInput{
		StockID:         stockID,
		QuantityChange:  delta,
		TransactionType: txType,
		TransactionDate: time.Now().Format("2006-01-02"),
	}
}

func TestApplyIncomingIncreasesQuantity(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "bolt", 10)

	view, err := f.ledger.Apply(1, movement(stock.ID, 15, models.TxIncoming))
	require.NoError(t, err)

	assert.Equal(t, 15, view.QuantityChange)
	assert.Equal(t, models.TxIncoming, view.TransactionType)
	require.NotNil(t, view.ItemName)
	assert.Equal(t, "bolt", *view.ItemName)

	assert.Equal(t, 25, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}

func TestApplyOutgoingDecreasesQuantity(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "bearing", 20)

	_, err := f.ledger.Apply(1, movement(stock.ID, -7, models.TxOutgoing))
	require.NoError(t, err)

	assert.Equal(t, 13, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}

func TestApplyInsufficientStockWritesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "oil", 3)

	var before int64
	require.NoError(t, f.db.Model(&models.StockHistory{}).Count(&before).Error)

	_, err := f.ledger.Apply(1, movement(stock.ID, -4, models.TxOutgoing))
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	var after int64
	require.NoError(t, f.db.Model(&models.StockHistory{}).Count(&after).Error)
	assert.Equal(t, before, after, "rejected movement must not leave a ledger row")
	assert.Equal(t, 3, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}

func TestApplyUnknownItem(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Apply(1, movement(9999, 5, models.TxIncoming))
	require.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestApplyValidation(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "washer", 10)

	cases := []struct {
		name string
		in   services.MovementInput
	}{
		{"incoming with negative delta", movement(stock.ID, -5, models.TxIncoming)},
		{"outgoing with positive delta", movement(stock.ID, 5, models.TxOutgoing)},
		{"zero adjustment", movement(stock.ID, 0, models.TxAdjustment)},
		{"unknown type", movement(stock.ID, 5, "transfer")},
		{"bad date", services.MovementInput{
			StockID: stock.ID, QuantityChange: 5,
			TransactionType: models.TxIncoming, TransactionDate: "not-a-date",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.Apply(1, tc.in)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, 10, f.quantity(t, stock.ID))
		})
	}
}

func TestReviseSameItemRebalances(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "gasket", 50)

	view, err := f.ledger.Apply(1, movement(stock.ID, -10, models.TxOutgoing))
	require.NoError(t, err)
	require.Equal(t, 40, f.quantity(t, stock.ID))

	// Undo the -10 and apply -16 instead: 50 - 16 = 34.
	_, err = f.ledger.Revise(1, view.ID, movement(stock.ID, -16, models.TxOutgoing))
	require.NoError(t, err)

	assert.Equal(t, 34, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}

func TestReviseRejectsNegativeResult(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "valve", 50)

	view, err := f.ledger.Apply(1, movement(stock.ID, -10, models.TxOutgoing))
	require.NoError(t, err)

	_, err = f.ledger.Revise(1, view.ID, movement(stock.ID, -60, models.TxOutgoing))
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	// The original entry still stands untouched.
	assert.Equal(t, 40, f.quantity(t, stock.ID))
	entry, err := f.history.View(view.ID)
	require.NoError(t, err)
	assert.Equal(t, -10, entry.QuantityChange)
	f.requireInvariant(t, stock.ID)
}

func TestReviseCrossItemMovesEffect(t *testing.T) {
	f := newLedgerFixture(t)
	first := f.createStock(t, "pump", 30)
	second := f.createStock(t, "hose", 5)

	view, err := f.ledger.Apply(1, movement(first.ID, -8, models.TxOutgoing))
	require.NoError(t, err)
	require.Equal(t, 22, f.quantity(t, first.ID))

	// Move the entry to the other item with a new delta.
	_, err = f.ledger.Revise(1, view.ID, movement(second.ID, 12, models.TxIncoming))
	require.NoError(t, err)

	assert.Equal(t, 30, f.quantity(t, first.ID), "original item restored")
	assert.Equal(t, 17, f.quantity(t, second.ID), "new item rebalanced")
	f.requireInvariant(t, first.ID)
	f.requireInvariant(t, second.ID)

	entry, err := f.history.View(view.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, entry.StockID)
}

func TestReviseCrossItemRejectsNegativeTarget(t *testing.T) {
	f := newLedgerFixture(t)
	first := f.createStock(t, "clamp", 30)
	second := f.createStock(t, "seal", 5)

	view, err := f.ledger.Apply(1, movement(first.ID, -8, models.TxOutgoing))
	require.NoError(t, err)

	_, err = f.ledger.Revise(1, view.ID, movement(second.ID, -6, models.TxOutgoing))
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	// Neither item changed.
	assert.Equal(t, 22, f.quantity(t, first.ID))
	assert.Equal(t, 5, f.quantity(t, second.ID))
	f.requireInvariant(t, first.ID)
	f.requireInvariant(t, second.ID)
}

func TestReviseUnknownEntry(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "belt", 10)

	_, err := f.ledger.Revise(1, 9999, movement(stock.ID, 5, models.TxIncoming))
	require.ErrorIs(t, err, services.ErrHistoryNotFound)
}

func TestReverseUndoesEntry(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "filter", 20)

	view, err := f.ledger.Apply(1, movement(stock.ID, -7, models.TxOutgoing))
	require.NoError(t, err)
	require.Equal(t, 13, f.quantity(t, stock.ID))

	require.NoError(t, f.ledger.Reverse(1, view.ID))

	assert.Equal(t, 20, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)

	// The row is gone for good, not soft-deleted.
	var count int64
	require.NoError(t, f.db.Unscoped().Model(&models.StockHistory{}).
		Where("id = ?", view.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReverseRejectsNegativeResult(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "grease", 0)

	view, err := f.ledger.Apply(1, movement(stock.ID, 10, models.TxIncoming))
	require.NoError(t, err)
	_, err = f.ledger.Apply(1, movement(stock.ID, -10, models.TxOutgoing))
	require.NoError(t, err)

	// Reversing the incoming would leave -10 on hand.
	err = f.ledger.Reverse(1, view.ID)
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	assert.Equal(t, 0, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}

func TestReverseUnknownEntry(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.ledger.Reverse(1, 9999)
	require.ErrorIs(t, err, services.ErrHistoryNotFound)
}

func TestConcurrentOutgoingSerialises(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "nut", 8)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Apply(1, movement(stock.ID, -1, models.TxOutgoing))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, services.ErrInsufficientStock)
			insufficient++
		}
	}

	assert.Equal(t, 8, ok, "exactly the available quantity may be withdrawn")
	assert.Equal(t, 2, insufficient)
	assert.Equal(t, 0, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}

func TestLedgerSequenceKeepsInvariant(t *testing.T) {
	f := newLedgerFixture(t)
	stock := f.createStock(t, "sprocket", 0)

	first, err := f.ledger.Apply(1, movement(stock.ID, 100, models.TxIncoming))
	require.NoError(t, err)
	_, err = f.ledger.Apply(1, movement(stock.ID, -30, models.TxOutgoing))
	require.NoError(t, err)
	third, err := f.ledger.Apply(1, movement(stock.ID, -20, models.TxOutgoing))
	require.NoError(t, err)

	_, err = f.ledger.Revise(1, third.ID, movement(stock.ID, -25, models.TxOutgoing))
	require.NoError(t, err)
	assert.Equal(t, 45, f.quantity(t, stock.ID))

	// Reversing the opening +100 would leave 45-100 on hand.
	err = f.ledger.Reverse(1, first.ID)
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	assert.Equal(t, 45, f.quantity(t, stock.ID))
	f.requireInvariant(t, stock.ID)
}
