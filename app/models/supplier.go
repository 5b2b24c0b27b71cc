package models

import "gorm.io/gorm"

// Supplier is a vendor record. Stock rows reference suppliers by name only
// (free text), so deleting a supplier never touches the catalog.
type Supplier struct {
	gorm.Model
	Name          string `gorm:"size:255;not null;index" json:"name"`
	ContactPerson string `gorm:"size:255" json:"contact_person"`
	Email         string `gorm:"size:255" json:"email"`
	Phone         string `gorm:"size:50" json:"phone"`
	Address       string `gorm:"type:text" json:"address"`
	Remarks       string `gorm:"type:text" json:"remarks"`
}
