package services

import (
	"errors"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"gorm.io/gorm"
)

type SupplierService struct {
	suppliers *repositories.SupplierRepository
}

func NewSupplierService(suppliers *repositories.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

type SupplierInput struct {
	Name          string `json:"name" validate:"required,min=2,max=255"`
	ContactPerson string `json:"contact_person" validate:"nullable,max=255"`
	Email         string `json:"email" validate:"nullable,email"`
	Phone         string `json:"phone" validate:"nullable,max=50"`
	Address       string `json:"address" validate:"nullable,max=2000"`
	Remarks       string `json:"remarks" validate:"nullable,max=2000"`
}

func (s *SupplierService) Create(in SupplierInput) (models.Supplier, error) {
	supplier := models.Supplier{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Remarks:       in.Remarks,
	}
	if err := s.suppliers.Create(&supplier); err != nil {
		return models.Supplier{}, storageErr("create supplier", err)
	}
	return supplier, nil
}

func (s *SupplierService) Get(id uint) (models.Supplier, error) {
	supplier, err := s.suppliers.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Supplier{}, ErrNotFound
	}
	if err != nil {
		return models.Supplier{}, storageErr("find supplier", err)
	}
	return supplier, nil
}

func (s *SupplierService) Update(id uint, in SupplierInput) (models.Supplier, error) {
	supplier, err := s.Get(id)
	if err != nil {
		return models.Supplier{}, err
	}

	supplier.Name = in.Name
	supplier.ContactPerson = in.ContactPerson
	supplier.Email = in.Email
	supplier.Phone = in.Phone
	supplier.Address = in.Address
	supplier.Remarks = in.Remarks

	if err := s.suppliers.Update(&supplier); err != nil {
		return models.Supplier{}, storageErr("update supplier", err)
	}
	return supplier, nil
}

func (s *SupplierService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.suppliers.Delete(id); err != nil {
		return storageErr("delete supplier", err)
	}
	return nil
}

func (s *SupplierService) List(search string, page, limit int) ([]models.Supplier, repositories.Pagination, error) {
	suppliers, p, err := s.suppliers.List(search, page, limit)
	if err != nil {
		return nil, repositories.Pagination{}, storageErr("list suppliers", err)
	}
	return suppliers, p, nil
}
