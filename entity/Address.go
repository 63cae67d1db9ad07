package entity

import (
	"gorm.io/gorm"
)

// Address is a user's address-book entry. Orders never reference this table;
// they carry their own point-in-time snapshots (see OrderAddress).
type Address struct {
	gorm.Model
	UserID uint `json:"userId"`
	User   User `json:"-"`

	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `gorm:"not null;default:false" json:"isDefault"`
}

// OrderAddress is the JSON snapshot embedded into orders.
type OrderAddress struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
