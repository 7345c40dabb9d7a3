package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"srs/config"
	"srs/database"
	"srs/history"
	"srs/loader"
	"srs/review"
	"srs/session"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, store *session.Store, cfg config.Config) {

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		var now string
		if err := dbConn.Get(&now, "SELECT datetime('now')"); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "db_time": now})
	})

	mux.HandleFunc("/api/login", session.LoginHandler(store))
	mux.HandleFunc("/api/logout", session.LogoutHandler(store))

	mux.HandleFunc("/api/get-all-markets", func(w http.ResponseWriter, r *http.Request) {
		markets, err := database.GetAllMarkets(dbConn)
		if err != nil {
			log.Printf("Error fetching markets: %v", err)
			http.Error(w, "Failed to fetch markets.", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": markets})
	})

	mux.HandleFunc("/api/get-data-for-range", review.DataForRangeHandler(store, dbConn))

	mux.HandleFunc("/api/suggestions/page", review.PageHandler(store))
	mux.HandleFunc("/api/suggestions/filter", review.FilterHandler(store))
	mux.HandleFunc("/api/suggestions/select", review.SelectHandler(store))
	mux.HandleFunc("/api/suggestions/select-all", review.SelectAllHandler(store))
	mux.HandleFunc("/api/suggestions/override", review.OverrideHandler(store))
	mux.HandleFunc("/api/suggestions/approve", review.ApproveHandler(store, dbConn))

	mux.HandleFunc("/api/get-history-for-range", history.GetHistoryHandler(store, dbConn))
	mux.HandleFunc("/api/history/export", history.ExportHistoryCSVHandler(store, dbConn))

	mux.HandleFunc("/api/inventory/reload", loader.ReloadInventoryHandler(dbConn, cfg.SeedCSVPath))

	mux.HandleFunc("/api/config/get", GetConfigHandler())
	mux.HandleFunc("/api/config/save", SaveConfigHandler())
}
