package model

// HistoryRecord is the durable, write-once projection of an approved
// suggestion. approved_at is stamped by the store, never by the caller.
type HistoryRecord struct {
	ID                  int64   `db:"id" json:"-"`
	MarketID            string  `db:"marketid" json:"marketid"`
	Company             string  `db:"company" json:"company"`
	ItemDescription     string  `db:"itmdesc" json:"itmdesc"`
	Cost                float64 `db:"cost" json:"cost"`
	TotalStock          float64 `db:"total_stock" json:"total_stock"`
	OriginalRecommended float64 `db:"original_recommended_qty" json:"original_recommended_qty"`
	OrderQty            float64 `db:"order_qty" json:"order_qty"`
	TotalCost           string  `db:"total_cost" json:"total_cost"`
	ShippingMethod      string  `db:"recommended_shipping" json:"recommended_shipping"`
	ApprovedBy          string  `db:"approved_by" json:"approved_by"`
	Comment             string  `db:"comments" json:"comments"`
	ApprovedAt          string  `db:"approved_at" json:"approved_at"`
}
