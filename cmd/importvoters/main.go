// Command importvoters loads a voter roll CSV file into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"quad/internal/cache"
	"quad/internal/config"
	"quad/internal/database"
	"quad/internal/repository"
	"quad/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "Path to the voter roll CSV")
	batch := flag.Int("batch", 0, "Rows per insert batch (default from IMPORT_BATCH_SIZE)")
	verbose := flag.Bool("v", false, "Print every rejected row")
	flag.Parse()

	if *file == "" {
		return fmt.Errorf("usage: importvoters -file <voters.csv> [-batch N] [-v]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *batch > 0 {
		cfg.ImportBatchSize = *batch
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	// Cached reports are dropped after the import when Redis is reachable.
	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	svc := service.NewVoterImportService(repository.NewVoterRepository(db), cfg.ImportBatchSize)
	result, err := svc.LoadRecords(context.Background(), f)
	if err != nil {
		return fmt.Errorf("import %s: %w", *file, err)
	}

	fmt.Printf("batch %s: %d succeeded, %d failed\n", result.BatchID, result.Succeeded, result.FailedCount())
	if *verbose {
		for _, perr := range result.Failed {
			fmt.Println("  " + perr.Error())
		}
	}
	return nil
}
