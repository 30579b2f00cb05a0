// Command backup exports and imports word list content as JSON, for moving
// lists between environments or keeping an offline copy.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"spellsprint/internal/config"
	"spellsprint/internal/database"
	"spellsprint/internal/repository"
	"spellsprint/internal/service"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	exportPath := flag.String("export", "", "export word lists to the given JSON file")
	importPath := flag.String("import", "", "import word lists from the given JSON file")
	flag.Parse()

	if (*exportPath == "") == (*importPath == "") {
		fmt.Fprintln(os.Stderr, "usage: backup -export FILE | -import FILE")
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	backup := service.NewBackupService(repository.NewListRepository(db))

	if *exportPath != "" {
		count, err := backup.Export(*exportPath)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		log.Printf("Exported %d word lists to %s", count, *exportPath)
		return
	}

	count, err := backup.Import(*importPath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d word lists from %s", count, *importPath)
}
