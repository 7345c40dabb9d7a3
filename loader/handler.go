package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
)

// ReloadInventoryHandler re-imports the configured seed CSV without a
// restart, for when a fresh export lands while the server is up.
func ReloadInventoryHandler(db *sqlx.DB, seedCSVPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if seedCSVPath == "" {
			http.Error(w, "No seed CSV configured", http.StatusBadRequest)
			return
		}
		log.Printf("HTTP request received: reloading %s...", seedCSVPath)

		if _, err := os.Stat(seedCSVPath); os.IsNotExist(err) {
			http.Error(w, fmt.Sprintf("seed file %s not found", seedCSVPath), http.StatusNotFound)
			return
		}
		if err := LoadInventoryCSV(db, seedCSVPath); err != nil {
			log.Printf("Error reloading inventory: %v", err)
			http.Error(w, "Failed to reload inventory data", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Inventory data reloaded."})
	}
}
