package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"homeplate/internal/importer"
)

// generateSamplePlates writes gzipped plate CSVs for cmd/import-plates.
// weekday.csv.gz: single plates plus bundle-eligible sides
// weekend.csv.gz: larger portions, one row with a bad price that the importer skips
func main() {
	dataDir := "data/plates"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	plates := map[string][][]string{
		"weekday.csv.gz": {
			{"Chicken curry", "Mild curry with basmati rice", "11.50", "12", tomorrow, "medium", "true", "false"},
			{"Veggie lasagna", "Spinach, ricotta and tomato", "10.00", "8", tomorrow, "large", "true", "false"},
			{"Garlic naan", "", "2.50", "30", tomorrow, "small", "true", "true"},
			{"Samosa pair", "Potato and pea", "3.00", "24", tomorrow, "small", "false", "true"},
			{"Mango lassi", "", "3.50", "20", tomorrow, "small", "true", "true"},
		},
		"weekend.csv.gz": {
			{"Sunday roast", "Beef with roast potatoes", "16.00", "6", tomorrow, "large", "true", "false"},
			{"Yorkshire pudding", "", "2.00", "18", tomorrow, "small", "false", "true"},
			{"Apple crumble", "With custard", "free", "10", tomorrow, "medium", "true", "true"},
		},
	}

	for filename, rows := range plates {
		filePath := filepath.Join(dataDir, filename)

		if err := createPlateFile(filePath, rows); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d rows\n", filePath, len(rows))
	}

	fmt.Println("\nSample plate files created successfully!")
	fmt.Println("Import them with: go run ./cmd/import-plates -user <seller-uuid> data/plates/*.csv.gz")
}

func createPlateFile(filePath string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.Write(importer.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write plates: %w", err)
	}

	return nil
}
