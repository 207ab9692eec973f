package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/shawnadoherty9/travelogie-sub001/services"
	"github.com/shawnadoherty9/travelogie-sub001/services/repositories"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		file      = flag.String("file", "", "CSV dataset to import")
		country   = flag.String("country", "", "Country name for newly created cities")
		driver    = flag.String("driver", shared.GetEnv("DB_DRIVER", "sqlite"), "Database driver: sqlite or postgres")
		dsn       = flag.String("db", "", "Database path or DSN (overrides DB_DATABASE / DATABASE_URL)")
		batchSize = flag.Int("batch", shared.GetEnvInt("IMPORT_BATCH_SIZE", shared.DefaultImportBatchSize), "Rows per bulk insert")
		help      = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help || *file == "" || *country == "" {
		showHelp()
		if !*help {
			os.Exit(2)
		}
		return
	}

	db, err := openDatabase(*driver, *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(services.Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	text, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rows := services.ParseCSV(string(text))
	log.Printf("Parsed %d rows from %s", len(rows), *file)

	if clamped := services.ClampBatchSize(*batchSize); clamped != *batchSize {
		log.Printf("Batch size %d out of range, using %d", *batchSize, clamped)
		*batchSize = clamped
	}

	importer := services.NewImporter(repositories.NewPlaceRepository(db), &services.ImporterOpts{
		BatchSize: *batchSize,
	})

	summary, err := importer.ImportRows(ctx, rows, *country)
	if summary != nil {
		fmt.Printf("Imported %d of %d rows in %d batches (%d skipped, %d cities and %d categories created)\n",
			summary.ImportedRows, summary.TotalRows, summary.Batches,
			summary.SkippedRows, summary.CitiesCreated, summary.CategoriesCreated)
		for _, rowErr := range summary.Errors {
			fmt.Println("  skipped:", rowErr)
		}
	}
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	case "sqlite":
		if dsn == "" {
			dsn = shared.GetEnv("DB_DATABASE", "travelogie.db")
		}
		return services.OpenSqlite(dsn)
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}

func showHelp() {
	log.Println(`
POI import tool

Usage: go run ./seed -file=<dataset.csv> -country=<name> [flags]

Flags:
  -file string
        CSV dataset with header row (required)
  -country string
        Country name assigned to newly created cities (required)
  -driver string
        sqlite or postgres (default from DB_DRIVER, else sqlite)
  -db string
        Database path or DSN (overrides DB_DATABASE / DATABASE_URL)
  -batch int
        Rows per bulk insert (default 50, at most 1000)

Examples:
  go run ./seed -file=data/japan.csv -country=Japan
  go run ./seed -driver=postgres -file=data/peru.csv -country=Peru -batch=100
`)
}
