package database

import (
	"fmt"
	"time"

	"srs/model"
)

// InsertHistoryRecord appends one approved suggestion to the history log.
// The approval timestamp is assigned here, never taken from the caller.
func InsertHistoryRecord(dbtx DBTX, rec model.HistoryRecord) error {
	const q = `
		INSERT INTO history_data (
			marketid, company, itmdesc, cost, total_stock,
			original_recommended_qty, order_qty, total_cost,
			recommended_shipping, approved_by, comments, approved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	approvedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := dbtx.Exec(q,
		rec.MarketID, rec.Company, rec.ItemDescription, rec.Cost, rec.TotalStock,
		rec.OriginalRecommended, rec.OrderQty, rec.TotalCost,
		rec.ShippingMethod, rec.ApprovedBy, rec.Comment, approvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history record for %s: %w", rec.ItemDescription, err)
	}
	return nil
}

// GetHistoryForRange returns history records approved inside the range,
// newest first. A market of "" or the literal "admin" disables the market
// filter; "admin" doubles as the no-filter sentinel for historical reasons
// and existing clients depend on it.
func GetHistoryForRange(dbtx DBTX, startISO, endISO, market string) ([]model.HistoryRecord, error) {
	q := `
		SELECT
			id, marketid, company, itmdesc, cost, total_stock,
			original_recommended_qty, order_qty, total_cost,
			recommended_shipping, approved_by, comments, approved_at
		FROM history_data
		WHERE approved_at BETWEEN ? AND ?`

	args := []interface{}{startISO, endISO + "T23:59:59Z"}
	if market != "" && market != model.RoleAdmin {
		q += ` AND marketid = ?`
		args = append(args, market)
	}
	q += ` ORDER BY approved_at DESC`

	var records []model.HistoryRecord
	if err := dbtx.Select(&records, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query history records: %w", err)
	}
	return records, nil
}
