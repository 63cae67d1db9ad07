package configs

import (
	"log"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin account from env, once.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:         email,
		Password:      string(hash),
		FirstName:     "Admin",
		LastName:      "Seed",
		Role:          "admin",
		EmailVerified: true,
	}
	return db.Create(&admin).Error
}

// SeedLookups inserts the default storefront categories and banners.
func SeedLookups() error {
	db := DB()

	db.FirstOrCreate(&entity.Category{}, entity.Category{Name: "Apparel", Slug: "apparel"})
	db.FirstOrCreate(&entity.Category{}, entity.Category{Name: "Camp & Hike", Slug: "camp-hike"})
	db.FirstOrCreate(&entity.Category{}, entity.Category{Name: "Accessories", Slug: "accessories"})

	db.FirstOrCreate(&entity.Banner{}, entity.Banner{Title: "New arrivals", Position: 1})

	return nil
}
