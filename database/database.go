package database

import (
	"errors"
	"fmt"
	"log"
	"neoevents/config"
	"neoevents/models"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB() *gorm.DB {
	dsn := config.AppConfig.DatabaseURL

	// GORM logger configuration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	if err := Migrate(db); err != nil {
		panic(fmt.Errorf("failed to migrate database: %w", err))
	}

	SeedAdminUser(db)
	return db
}

// Migrate creates the event/user tables and both join tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Event{}, &models.EventCategory{})
}

// SeedAdminUser creates the initial admin account if it does not exist, so the
// admin-only routes are usable on a fresh database.
func SeedAdminUser(db *gorm.DB) {
	adminEmail := config.AppConfig.AdminEmail
	if adminEmail == "" {
		return
	}

	var admin models.User
	err := db.Where("email = ?", adminEmail).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking for admin user: %v\n", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminSeedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin seed password: %v\n", err)
		return
	}
	admin = models.User{
		Name:     "Admin",
		Email:    adminEmail,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to create initial admin user: %v\n", err)
		return
	}
	log.Println("Created initial admin user.")
}
