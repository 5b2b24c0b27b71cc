package seeders

import (
	"time"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("demo_catalog", SeedDemoCatalog)
}

// SeedAdminUser inserts the initial admin account if no users exist.
// Change the password immediately after first login.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "Administrator",
		Email:    "admin@example.com",
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}

// SeedDemoCatalog inserts a small demo catalog with opening movements so the
// quantity and ledger start out consistent.
func SeedDemoCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Stock{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	supplier := models.Supplier{
		Name:          "Acme Industrial Supplies",
		ContactPerson: "R. Mehta",
		Email:         "sales@acme-industrial.example.com",
		Phone:         "+91-98000-00000",
	}
	if err := db.Create(&supplier).Error; err != nil {
		return err
	}

	items := []struct {
		stock   models.Stock
		opening int
	}{
		{models.Stock{Name: "Hex Bolt M8x40", PartNumber: "HB-M8-40", Category: "Fasteners", Supplier: supplier.Name, UOM: "pcs", ReorderLevel: 100, Price: 2.50}, 500},
		{models.Stock{Name: "Bearing 6204-2RS", PartNumber: "BRG-6204", Category: "Bearings", Supplier: supplier.Name, UOM: "pcs", ReorderLevel: 20, Price: 85.00}, 60},
		{models.Stock{Name: "Hydraulic Oil 68", PartNumber: "OIL-HYD-68", Category: "Lubricants", Supplier: supplier.Name, UOM: "ltr", ReorderLevel: 50, Price: 210.00}, 0},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			item.stock.Quantity = item.opening
			if err := tx.Create(&item.stock).Error; err != nil {
				return err
			}
			if item.opening == 0 {
				continue
			}
			entry := models.StockHistory{
				StockID:         item.stock.ID,
				QuantityChange:  item.opening,
				TransactionType: models.TxAdjustment,
				TransactionDate: time.Now(),
				Remarks:         "opening balance",
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
