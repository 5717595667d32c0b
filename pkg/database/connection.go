package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	var dsn string

	// Prioritize DATABASE_URL if provided (common on managed hosts)
	if config.AppConfig.Database.URL != "" {
		log.Println("Using DATABASE_URL for connection")
		dsn = config.AppConfig.Database.URL

		// Convert mysql:// or mariadb:// URL to DSN if needed
		if strings.HasPrefix(dsn, "mysql://") || strings.HasPrefix(dsn, "mariadb://") {
			rawDSN := strings.TrimPrefix(strings.TrimPrefix(dsn, "mysql://"), "mariadb://")

			// user:pass@host:port/dbname -> user:pass@tcp(host:port)/dbname?params
			parts := strings.SplitN(rawDSN, "@", 2)
			if len(parts) == 2 {
				creds := parts[0]
				hostParts := strings.SplitN(parts[1], "/", 2)
				if len(hostParts) == 2 {
					dsn = fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
						creds, hostParts[0], hostParts[1])
				}
			}
		}
	} else {
		c := config.AppConfig.Database
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	}

	logLevel := logger.Warn
	if config.AppConfig.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	DB = db
	log.Println("Database connected successfully")
}
