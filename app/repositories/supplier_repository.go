package repositories

import (
	"github.com/rpradhan/stockroom/app/models"
	"gorm.io/gorm"
)

// SupplierRepository handles database operations for Supplier.
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(supplier *models.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *SupplierRepository) FindByID(id uint) (models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.First(&supplier, id).Error
	return supplier, err
}

func (r *SupplierRepository) Update(supplier *models.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *SupplierRepository) Delete(id uint) error {
	return r.db.Delete(&models.Supplier{}, id).Error
}

// List returns suppliers, optionally filtered by a name substring.
func (r *SupplierRepository) List(search string, page, limit int) ([]models.Supplier, Pagination, error) {
	query := r.db.Model(&models.Supplier{}).Order("name")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var suppliers []models.Supplier
	p, err := paginate(query, page, limit, &suppliers)
	return suppliers, p, err
}
