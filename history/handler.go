package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"

	"srs/database"
	"srs/session"
)

// GetHistoryHandler returns the approval log for a date range, newest first.
// Non-admin callers are restricted to their own market; the admin role passes
// its role string straight through, which the query layer treats as the
// no-filter sentinel.
func GetHistoryHandler(store *session.Store, conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.SessionFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var payload struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		startISO, endISO, err := normalizeRange(payload.StartDate, payload.EndDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		records, err := database.GetHistoryForRange(conn, startISO, endISO, sess.Role)
		if err != nil {
			log.Printf("Error querying history %s..%s: %v", startISO, endISO, err)
			http.Error(w, "Failed to fetch history.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": records})
	}
}

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportHistoryCSVHandler downloads the caller's history view as CSV.
func ExportHistoryCSVHandler(store *session.Store, conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.SessionFor(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		startISO, endISO, err := normalizeRange(q.Get("startDate"), q.Get("endDate"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		records, err := database.GetHistoryForRange(conn, startISO, endISO, sess.Role)
		if err != nil {
			http.Error(w, "Failed to fetch history for export: "+err.Error(), http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM for spreadsheet apps

		header := []string{
			"Marketid", "Company", "Itmdesc", "Cost", "Total Stock",
			"Original Recommended Qty", "Order Qty", "Total Cost",
			"Recommended Shipping", "Approved By", "Comments", "Approved At",
		}
		buf.WriteString(strings.Join(header, ",") + "\r\n")

		for _, rec := range records {
			record := []string{
				quoteAll(rec.MarketID),
				quoteAll(rec.Company),
				quoteAll(rec.ItemDescription),
				quoteAll(fmt.Sprintf("%.2f", rec.Cost)),
				quoteAll(fmt.Sprintf("%g", rec.TotalStock)),
				quoteAll(fmt.Sprintf("%g", rec.OriginalRecommended)),
				quoteAll(fmt.Sprintf("%g", rec.OrderQty)),
				quoteAll(rec.TotalCost),
				quoteAll(rec.ShippingMethod),
				quoteAll(rec.ApprovedBy),
				quoteAll(rec.Comment),
				quoteAll(rec.ApprovedAt),
			}
			buf.WriteString(strings.Join(record, ",") + "\r\n")
		}

		filename := fmt.Sprintf("Approval_History_%s_%s.csv", startISO, endISO)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(buf.Bytes())
	}
}

func normalizeRange(start, end string) (string, string, error) {
	startISO, _, err := session.NormalizeDate(start)
	if err != nil {
		return "", "", err
	}
	endISO, _, err := session.NormalizeDate(end)
	if err != nil {
		return "", "", err
	}
	if endISO < startISO {
		return "", "", fmt.Errorf("end date cannot be before the start date")
	}
	return startISO, endISO, nil
}
