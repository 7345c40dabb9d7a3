package database

import (
	"database/sql"
	"fmt"
	"time"

	"srs/model"
)

// GetRowsForRange returns every suggestion row whose date falls inside
// [startISO, endISO], end inclusive to the whole day, newest first. Numeric
// nulls come back as 0 and string nulls as "", so downstream code never sees
// a null.
func GetRowsForRange(dbtx DBTX, startISO, endISO string) ([]*model.SuggestionRow, error) {
	const q = `
		SELECT
			date, marketid, custno, company, item, status, itmdesc,
			in_stock, in_transit, total_stock, cost, allocations,
			w1, w2, w3, days_30,
			overnight, to_order_cost_overnight,
			two_day_ship, to_order_cost_2day,
			ground, to_order_cost_ground,
			recommended_quantity, recommended_shipping
		FROM inventory_data
		WHERE date BETWEEN ? AND ?
		ORDER BY date DESC`

	rows, err := dbtx.Query(q, startISO, endISO+" 23:59:59")
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory rows: %w", err)
	}
	defer rows.Close()

	var result []*model.SuggestionRow
	for rows.Next() {
		var (
			date, marketID, custNo, company, item, status, itmDesc sql.NullString
			inStock, inTransit, totalStock, cost, allocations      sql.NullFloat64
			w1, w2, w3, days30                                     sql.NullFloat64
			overnight, overnightCost, twoDay, twoDayCost           sql.NullFloat64
			ground, groundCost                                     sql.NullFloat64
			recQty, recShip                                        sql.NullString
		)
		if err := rows.Scan(
			&date, &marketID, &custNo, &company, &item, &status, &itmDesc,
			&inStock, &inTransit, &totalStock, &cost, &allocations,
			&w1, &w2, &w3, &days30,
			&overnight, &overnightCost,
			&twoDay, &twoDayCost,
			&ground, &groundCost,
			&recQty, &recShip,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}

		result = append(result, &model.SuggestionRow{
			Date:                 formatDateUS(date.String),
			MarketID:             marketID.String,
			CustomerNumber:       custNo.String,
			Company:              company.String,
			Item:                 item.String,
			Status:               status.String,
			ItemDescription:      itmDesc.String,
			InStock:              inStock.Float64,
			InTransit:            inTransit.Float64,
			TotalStock:           totalStock.Float64,
			UnitCost:             cost.Float64,
			Allocations:          allocations.Float64,
			Week1:                w1.Float64,
			Week2:                w2.Float64,
			Week3:                w3.Float64,
			Days30:               days30.Float64,
			Overnight:            overnight.Float64,
			ToOrderCostOvernight: overnightCost.Float64,
			TwoDayShip:           twoDay.Float64,
			ToOrderCost2Day:      twoDayCost.Float64,
			Ground:               ground.Float64,
			ToOrderCostGround:    groundCost.Float64,
			RecommendedQuantity:  model.NormalizeQuantity(recQty.String),
			RecommendedShipping:  recShip.String,
		})
	}
	return result, rows.Err()
}

// GetAllMarkets returns the sorted distinct market ids present in the feed.
func GetAllMarkets(dbtx DBTX) ([]string, error) {
	const q = `
		SELECT DISTINCT marketid FROM inventory_data
		WHERE marketid IS NOT NULL AND marketid != ''
		ORDER BY marketid ASC`

	var markets []string
	if err := dbtx.Select(&markets, q); err != nil {
		return nil, fmt.Errorf("failed to query markets: %w", err)
	}
	return markets, nil
}

// formatDateUS renders a stored ISO date (with or without a time part) as
// MM/DD/YYYY for display, matching the feed's historical format.
func formatDateUS(iso string) string {
	if len(iso) >= 10 {
		if t, err := time.Parse("2006-01-02", iso[:10]); err == nil {
			return t.Format("01/02/2006")
		}
	}
	return iso
}
