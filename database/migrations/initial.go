package migrations

import (
	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_suppliers_table", &CreateSuppliersTable{})
	migration.Register("20260101000002_create_stocks_table", &CreateStocksTable{})
	migration.Register("20260101000003_create_stock_histories_table", &CreateStockHistoriesTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: suppliers --------

type CreateSuppliersTable struct{}

func (m *CreateSuppliersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Supplier{})
}

func (m *CreateSuppliersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("suppliers")
}

// -------- 0003: stocks --------

type CreateStocksTable struct{}

func (m *CreateStocksTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Stock{})
}

func (m *CreateStocksTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("stocks")
}

// -------- 0004: stock_histories --------

type CreateStockHistoriesTable struct{}

func (m *CreateStockHistoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.StockHistory{})
}

func (m *CreateStockHistoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("stock_histories")
}
