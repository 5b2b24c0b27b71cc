package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/services"
)

type stockFixture struct {
	*ledgerFixture
	stockSvc  *services.StockService
	reportSvc *services.ReportService
}

func newStockFixture(t *testing.T) *stockFixture {
	f := newLedgerFixture(t)
	return &stockFixture{
		ledgerFixture: f,
		stockSvc:      services.NewStockService(f.stocks, f.ledger),
		reportSvc:     services.NewReportService(f.history),
	}
}

func TestCreateStockBooksOpeningBalance(t *testing.T) {
	f := newStockFixture(t)

	stock, err := f.stockSvc.Create(1, services.StockInput{
		Name:            "Hex Bolt",
		PartNumber:      "HB-001",
		ReorderLevel:    10,
		OpeningQuantity: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, stock.Quantity)
	assert.Equal(t, models.StatusAvailable, stock.Status)

	// The opening quantity arrives through the ledger, not a raw column write.
	sum, err := f.history.SumDeltas(stock.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, sum)

	views, _, err := f.reportSvc.List(repositories.MovementFilter{StockID: stock.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.TxAdjustment, views[0].TransactionType)
}

func TestCreateStockWithoutOpeningQuantity(t *testing.T) {
	f := newStockFixture(t)

	stock, err := f.stockSvc.Create(1, services.StockInput{
		Name:       "Empty Shelf",
		PartNumber: "ES-001",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, stock.Quantity)
	assert.Equal(t, models.StatusOutOfStock, stock.Status)

	views, _, err := f.reportSvc.List(repositories.MovementFilter{StockID: stock.ID})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestPatchChangesOnlyProvidedFields(t *testing.T) {
	f := newStockFixture(t)

	stock, err := f.stockSvc.Create(1, services.StockInput{
		Name:            "Bearing",
		PartNumber:      "BRG-01",
		Category:        "Bearings",
		ReorderLevel:    10,
		OpeningQuantity: 30,
	})
	require.NoError(t, err)

	name := "Bearing 6204"
	reorder := 15
	patched, err := f.stockSvc.Patch(stock.ID, models.StockPatch{
		Name:         &name,
		ReorderLevel: &reorder,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearing 6204", patched.Name)
	assert.Equal(t, 15, patched.ReorderLevel)
	assert.Equal(t, "Bearings", patched.Category, "untouched field keeps its value")
	assert.Equal(t, 30, patched.Quantity, "patch can never move quantity")
}

func TestPatchEmptyIsNoOp(t *testing.T) {
	f := newStockFixture(t)

	stock, err := f.stockSvc.Create(1, services.StockInput{Name: "Nut", PartNumber: "NT-01"})
	require.NoError(t, err)

	patched, err := f.stockSvc.Patch(stock.ID, models.StockPatch{})
	require.NoError(t, err)
	assert.Equal(t, stock.Name, patched.Name)
}

func TestPatchUnknownItem(t *testing.T) {
	f := newStockFixture(t)

	name := "ghost"
	_, err := f.stockSvc.Patch(9999, models.StockPatch{Name: &name})
	require.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestStatusProjection(t *testing.T) {
	f := newStockFixture(t)

	stock, err := f.stockSvc.Create(1, services.StockInput{
		Name:            "Oil",
		PartNumber:      "OIL-01",
		ReorderLevel:    10,
		OpeningQuantity: 8,
	})
	require.NoError(t, err)

	got, err := f.stockSvc.Get(stock.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLowStock, got.Status)

	_, err = f.ledger.Apply(1, movement(stock.ID, 20, models.TxIncoming))
	require.NoError(t, err)

	got, err = f.stockSvc.Get(stock.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestDeleteKeepsHistoryReadable(t *testing.T) {
	f := newStockFixture(t)

	stock, err := f.stockSvc.Create(1, services.StockInput{
		Name:            "Retired Part",
		PartNumber:      "RP-01",
		OpeningQuantity: 12,
	})
	require.NoError(t, err)

	views, _, err := f.reportSvc.List(repositories.MovementFilter{StockID: stock.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)

	require.NoError(t, f.stockSvc.Delete(stock.ID))

	_, err = f.stockSvc.Get(stock.ID)
	require.ErrorIs(t, err, services.ErrItemNotFound)

	// The ledger entry survives as an orphan with nil item columns.
	views, _, err = f.reportSvc.List(repositories.MovementFilter{StockID: stock.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].ItemName)
}
