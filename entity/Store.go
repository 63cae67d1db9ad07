package entity

import (
	"gorm.io/gorm"
)

type Store struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Logo        string `json:"logo"`

	UserID uint `json:"userId"` // seller (users.id)
	User   User `json:"-"`

	Products []Product `json:"-"`
	Orders   []Order   `json:"-"`
}
