package main

import (
	"log"
	"os"

	"vitalabs/internal/config"
	"vitalabs/internal/models"
	"vitalabs/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := repositories.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	seedAdmin(db, adminEmail, adminPassword)
	seedProducts(db)
}

func seedAdmin(db *gorm.DB, email, password string) {
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:        email,
		Password:     string(hashed),
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Println("Admin account created")
}

func seedProducts(db *gorm.DB) {
	products := []models.Product{
		{Slug: "bpc-157", Name: "BPC-157", UnitPriceCents: 10000, Active: true},
		{Slug: "tb-500", Name: "TB-500", UnitPriceCents: 12500, Active: true},
		{Slug: "ghk-cu", Name: "GHK-Cu", UnitPriceCents: 8500, Active: true},
		{Slug: "semax", Name: "Semax", UnitPriceCents: 9000, Active: true},
	}

	for _, p := range products {
		var existing models.Product
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Printf("Failed to seed product %s: %v", p.Slug, err)
			continue
		}
		log.Printf("Seeded product %s", p.Slug)
	}
}
