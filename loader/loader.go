package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// inventoryColumns is the column order of a legacy inventory export. The seed
// CSV must carry exactly these 24 columns, header row included.
var inventoryColumns = []string{
	"date", "marketid", "custno", "company", "item", "status", "itmdesc",
	"in_stock", "in_transit", "total_stock", "cost", "allocations",
	"w1", "w2", "w3", "days_30",
	"overnight", "to_order_cost_overnight",
	"two_day_ship", "to_order_cost_2day",
	"ground", "to_order_cost_ground",
	"recommended_quantity", "recommended_shipping",
}

// numericColumns marks the column indexes stored as REAL. Unparseable values
// load as 0 rather than failing the import.
var numericColumns = map[int]bool{
	7: true, 8: true, 9: true, 10: true, 11: true,
	12: true, 13: true, 14: true, 15: true,
	16: true, 17: true, 18: true, 19: true, 20: true, 21: true,
}

// InitDatabase applies the schema and, when a seed file is configured, loads
// the inventory snapshot from it.
func InitDatabase(db *sqlx.DB, seedCSVPath string) error {
	log.Println("Applying database schema...")
	if err := applySchema(db); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	log.Println("Schema applied successfully.")

	if seedCSVPath == "" {
		return nil
	}
	if _, err := os.Stat(seedCSVPath); os.IsNotExist(err) {
		log.Printf("WARN: seed file %s not found, skipping.", seedCSVPath)
		return nil
	}
	log.Printf("Loading %s...", seedCSVPath)
	if err := LoadInventoryCSV(db, seedCSVPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", seedCSVPath, err)
	}
	log.Printf("Loaded %s successfully.", seedCSVPath)
	return nil
}

func applySchema(db *sqlx.DB) error {
	schemaBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("could not read schema.sql: %w", err)
	}
	_, err = db.Exec(string(schemaBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// LoadInventoryCSV imports a legacy inventory export into inventory_data.
// The exports come out of a Windows reporting tool, so the bytes are
// Windows-1252, not UTF-8.
func LoadInventoryCSV(db *sqlx.DB, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.Windows1252.NewDecoder()))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	// Header row.
	if _, err := r.Read(); err != nil && err != io.EOF {
		return fmt.Errorf("failed to skip header in %s: %w", path, err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			log.Printf("Rolling back inventory import due to error: %v", err)
			tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				log.Printf("Error committing inventory import: %v", err)
			}
		}
	}()

	placeholders := strings.Repeat("?,", len(inventoryColumns)-1) + "?"
	query := fmt.Sprintf("INSERT OR REPLACE INTO inventory_data (%s) VALUES (%s)",
		strings.Join(inventoryColumns, ", "), placeholders)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare inventory insert: %w", err)
	}
	defer stmt.Close()

	rowCount := 0
	for {
		row, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Printf("WARN: Error reading row in %s (skipping): %v", path, readErr)
			continue
		}
		if len(row) < len(inventoryColumns) {
			continue
		}
		if len(row) > len(inventoryColumns) {
			row = row[:len(inventoryColumns)]
		}

		args := make([]interface{}, len(inventoryColumns))
		for i, raw := range row {
			val := strings.TrimSpace(raw)
			if numericColumns[i] {
				num, parseErr := strconv.ParseFloat(val, 64)
				if parseErr != nil {
					args[i] = 0.0
				} else {
					args[i] = num
				}
			} else {
				args[i] = val
			}
		}

		if _, execErr := stmt.Exec(args...); execErr != nil {
			err = fmt.Errorf("failed to insert inventory row: %w", execErr)
			return err
		}
		rowCount++
	}

	log.Printf("Inserted or replaced %d rows into inventory_data", rowCount)
	return nil
}
