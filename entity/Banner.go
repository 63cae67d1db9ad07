package entity

import (
	"gorm.io/gorm"
)

// Banner is storefront hero content; managed out-of-band, read-only here.
type Banner struct {
	gorm.Model
	Title    string `json:"title"`
	Image    string `json:"image"`
	Link     string `json:"link"`
	Position int    `gorm:"not null;default:0" json:"position"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}
