package review

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"srs/database"
	"srs/model"
)

// SessionSource resolves the caller's workflow and session from a request.
// Implemented by the session store; declared here so this package does not
// depend on it.
type SessionSource interface {
	WorkflowFor(r *http.Request) (*Workflow, *model.Session, error)
}

// legacyHeaders is the wire column order of the range feed. "Recommended
// Quntitty" is misspelled in the upstream export and existing clients key on
// it, so it stays misspelled here.
var legacyHeaders = []string{
	"Date", "Marketid", "custno", "company", "Item", "Status", "Itmdesc",
	"In_Stock", "In_Transit", "Total_Stock", "cost", "Allocations",
	"W1", "W2", "W3", "30_days",
	"OVERNIGHT", "To_Order_Cost_Overnight",
	"2_DAY_SHIP", "To_Order_Cost_2DAY",
	"GROUND", "To_Order_Cost_GROUND",
	"Recommended Quntitty", "Recommended Shipping",
}

func legacyRow(r *model.SuggestionRow) map[string]interface{} {
	return map[string]interface{}{
		"Date":                    r.Date,
		"Marketid":                r.MarketID,
		"custno":                  r.CustomerNumber,
		"company":                 r.Company,
		"Item":                    r.Item,
		"Status":                  r.Status,
		"Itmdesc":                 r.ItemDescription,
		"In_Stock":                r.InStock,
		"In_Transit":              r.InTransit,
		"Total_Stock":             r.TotalStock,
		"cost":                    r.UnitCost,
		"Allocations":             r.Allocations,
		"W1":                      r.Week1,
		"W2":                      r.Week2,
		"W3":                      r.Week3,
		"30_days":                 r.Days30,
		"OVERNIGHT":               r.Overnight,
		"To_Order_Cost_Overnight": r.ToOrderCostOvernight,
		"2_DAY_SHIP":              r.TwoDayShip,
		"To_Order_Cost_2DAY":      r.ToOrderCost2Day,
		"GROUND":                  r.Ground,
		"To_Order_Cost_GROUND":    r.ToOrderCostGround,
		"Recommended Quntitty":    r.RecommendedQuantity,
		"Recommended Shipping":    r.RecommendedShipping,
	}
}

// DataForRangeHandler serves the raw feed for the session's date range in the
// legacy {headers, data} shape. Non-admin callers only see their own market.
func DataForRangeHandler(ss SessionSource, conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		rows, err := database.GetRowsForRange(conn, sess.StartISO, sess.EndISO)
		if err != nil {
			log.Printf("Error fetching rows for range %s..%s: %v", sess.StartISO, sess.EndISO, err)
			http.Error(w, "Failed to query database.", http.StatusInternalServerError)
			return
		}

		data := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			if !sess.IsAdmin() && row.MarketID != sess.Role {
				continue
			}
			data = append(data, legacyRow(row))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"headers": legacyHeaders,
			"data":    data,
		})
	}
}

// PageHandler returns one page of the filtered working set.
func PageHandler(ss SessionSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, _, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		page := 1
		if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			page = n
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(wf.Page(page))
	}
}

// FilterHandler sets one filter dimension and returns the first page of the
// re-filtered view.
func FilterHandler(ss SessionSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, _, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		var payload struct {
			Dimension string `json:"dimension"`
			Value     string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := wf.SetFilter(payload.Dimension, payload.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(wf.Page(1))
	}
}

// SelectHandler toggles individual rows on the current page.
func SelectHandler(ss SessionSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, _, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		var payload struct {
			Keys    []model.RowKey `json:"keys"`
			Checked bool           `json:"checked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		toggled := 0
		for _, key := range payload.Keys {
			if wf.ToggleRow(key, payload.Checked) {
				toggled++
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"toggled": toggled})
	}
}

// SelectAllHandler toggles every row on the current page only.
func SelectAllHandler(ss SessionSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, _, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		var payload struct {
			Checked bool `json:"checked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		toggled := wf.ToggleAll(payload.Checked)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"toggled": toggled})
	}
}

// OverrideHandler writes one operator override (quantity, shipping, or
// comment) through to the canonical row.
func OverrideHandler(ss SessionSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, _, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		var payload struct {
			Key   model.RowKey `json:"key"`
			Field string       `json:"field"`
			Value string       `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp := map[string]string{}
		var found bool
		switch payload.Field {
		case "quantity":
			var totalCost string
			totalCost, found = wf.SetNeededQuantity(payload.Key, payload.Value)
			resp["totalCost"] = totalCost
		case "shipping":
			found = wf.SetShippingMethod(payload.Key, payload.Value)
		case "comment":
			found = wf.SetComment(payload.Key, payload.Value)
		default:
			http.Error(w, "Unknown override field", http.StatusBadRequest)
			return
		}
		if !found {
			http.Error(w, "Row not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// ApproveHandler submits the current selection to the history log. A partial
// failure reports the failing row and leaves the selection for retry; rows
// already written stay written.
func ApproveHandler(ss SessionSource, conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, _, err := ss.WorkflowFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		var payload struct {
			Approver string `json:"approver"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		writer := HistoryWriterFunc(func(rec model.HistoryRecord) error {
			return database.InsertHistoryRecord(conn, rec)
		})

		outcome, err := wf.SubmitApproval(payload.Approver, writer)
		if err != nil {
			if errors.Is(err, ErrNoApprover) || errors.Is(err, ErrEmptySelection) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("Approval batch failed at index %d (%s): %v",
				outcome.FailedIndex, outcome.FailedItem, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": err.Error(),
				"outcome": outcome,
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Approval saved successfully!",
			"outcome": outcome,
		})
	}
}
