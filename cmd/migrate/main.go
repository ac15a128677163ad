// Command migrate applies the schema. The server only migrates outside
// production, so deployments run this first.
package main

import (
	"fmt"
	"log"

	"quad/internal/config"
	"quad/internal/database"
	"quad/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := gorm.Open(postgres.Open(database.DSN(cfg)), &gorm.Config{
		Logger:         database.NewGormLogger(middleware.Logger),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Println("schema migrated")
	return nil
}
