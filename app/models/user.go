package models

import "gorm.io/gorm"

// Roles understood by the API. Admins manage users and may delete catalog
// rows; managers operate day-to-day stock movements.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User is an operator account.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;default:manager" json:"role"`
}
