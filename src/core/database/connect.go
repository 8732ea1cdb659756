package database

import (
	"fmt"
	"log"

	"github.com/Fariz-ai/dev-events/src/core/config"
	"github.com/Fariz-ai/dev-events/src/core/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Connect opens the Postgres connection pool and migrates the schema.
// The returned handle is owned by main and injected into the handlers;
// call Close on shutdown.
func Connect() (*gorm.DB, error) {
	host := config.MustGet("DB_HOST")
	port := config.MustGet("DB_PORT")
	user := config.MustGet("DB_USER")
	password := config.MustGet("DB_PASSWORD")
	dbname := config.MustGet("DB_NAME")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: false,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Booking{}); err != nil {
		return nil, fmt.Errorf("error migrating schema: %w", err)
	}

	log.Println("Database successfully connected!")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to fetch underlying sql.DB: %v\n", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database connections: %v\n", err)
	}
}
