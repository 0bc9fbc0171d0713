package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/bizreview-backend/config"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	"github.com/ikkim/bizreview-backend/internal/db"
	"github.com/ikkim/bizreview-backend/internal/report"
	"github.com/ikkim/bizreview-backend/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> | --template <output.xlsx>")
	}

	if os.Args[1] == "--template" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: go run cmd/seed/main.go --template <output.xlsx>")
		}
		writeTemplate(os.Args[2])
		return
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      "console",
		Service:     "bizreview-seed",
		EnableColor: true,
	})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	rows, rowErrors, err := report.ReadRegistrations(file)
	file.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, rowErr := range rowErrors {
		fmt.Printf("  skipping %s\n", rowErr.Error())
	}
	fmt.Printf("Total registrations to import: %d (skipped %d)\n", len(rows), len(rowErrors))
	if len(rows) == 0 {
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
	}

	registrationService := service.NewRegistrationService(
		repository.NewRegistrationRepository(db.GetDB()),
		repository.NewLocationRepository(db.GetDB()),
		db.GetDB(),
		nil,
	)

	imported, failed := 0, 0
	for _, row := range rows {
		registration, err := registrationService.Submit(row.Input)
		if err != nil {
			failed++
			logger.Warn("Row rejected", map[string]interface{}{
				"line":  row.Line,
				"name":  row.Input.Name,
				"error": err.Error(),
			})
			continue
		}
		imported++
		logger.Debug("Registration imported", map[string]interface{}{
			"line":            row.Line,
			"registration_id": registration.ID,
		})
	}

	fmt.Println("Import completed!")
	fmt.Printf("Imported: %d, rejected: %d\n", imported, failed)
}

func writeTemplate(path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal("Failed to create template:", err)
	}
	defer file.Close()

	if err := report.ImportTemplate(file); err != nil {
		log.Fatal("Failed to write template:", err)
	}
	fmt.Printf("Template written to %s\n", path)
}
