package database

import (
	"log"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/utils"

	"gorm.io/gorm"
)

// SeedAdmin creates the back-office admin account on first boot.
func SeedAdmin() {
	email := config.AppConfig.Defaults.AdminEmail
	if email == "" {
		log.Println("ADMIN_EMAIL not set, skipping admin seed")
		return
	}

	var admin models.User
	err := DB.Where("email = ?", email).First(&admin).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("Failed to check admin user: %v", err)
		return
	}

	hashedPassword, err := utils.HashPassword(config.AppConfig.Defaults.AdminPassword)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin = models.User{
		Name:         "Store Admin",
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Admin user seeded successfully.")
}
