package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// RowKey identifies one suggestion line. Two rows carrying the same triple are
// the same entity regardless of which fetch or filter produced them.
type RowKey struct {
	Market  string `json:"market"`
	Company string `json:"company"`
	Item    string `json:"item"`
}

// Shipping methods accepted on a suggestion line. The set is closed; anything
// else is discarded at the tracker boundary.
const (
	ShipNone      = "No order needed"
	ShipOvernight = "Overnight"
	ShipTwoDay    = "2-day shipping"
	ShipGround    = "Ground"
)

var ShippingOptions = []string{ShipNone, ShipOvernight, ShipTwoDay, ShipGround}

func ValidShippingMethod(v string) bool {
	for _, opt := range ShippingOptions {
		if v == opt {
			return true
		}
	}
	return false
}

// Quantity-class filter values, as the front end sends them.
const (
	QuantityAll     = "ALL"
	QuantityDeficit = "less_than_zero"
	QuantityNone    = "equal_to_zero"
	QuantityExcess  = "more_than_zero"
)

// SuggestionRow is one replenishment suggestion for a (market, company, item)
// triple, merged with the operator-owned override fields. The override fields
// have no db tags: they live only in the workflow instance.
type SuggestionRow struct {
	Date                 string  `db:"date" json:"date"`
	MarketID             string  `db:"marketid" json:"marketId"`
	CustomerNumber       string  `db:"custno" json:"customerNumber"`
	Company              string  `db:"company" json:"company"`
	Item                 string  `db:"item" json:"item"`
	Status               string  `db:"status" json:"status"`
	ItemDescription      string  `db:"itmdesc" json:"itemDescription"`
	InStock              float64 `db:"in_stock" json:"inStock"`
	InTransit            float64 `db:"in_transit" json:"inTransit"`
	TotalStock           float64 `db:"total_stock" json:"totalStock"`
	UnitCost             float64 `db:"cost" json:"unitCost"`
	Allocations          float64 `db:"allocations" json:"allocations"`
	Week1                float64 `db:"w1" json:"w1"`
	Week2                float64 `db:"w2" json:"w2"`
	Week3                float64 `db:"w3" json:"w3"`
	Days30               float64 `db:"days_30" json:"days30"`
	Overnight            float64 `db:"overnight" json:"overnight"`
	ToOrderCostOvernight float64 `db:"to_order_cost_overnight" json:"toOrderCostOvernight"`
	TwoDayShip           float64 `db:"two_day_ship" json:"twoDayShip"`
	ToOrderCost2Day      float64 `db:"to_order_cost_2day" json:"toOrderCost2Day"`
	Ground               float64 `db:"ground" json:"ground"`
	ToOrderCostGround    float64 `db:"to_order_cost_ground" json:"toOrderCostGround"`
	RecommendedQuantity  string  `db:"recommended_quantity" json:"recommendedQuantity"`
	RecommendedShipping  string  `db:"recommended_shipping" json:"recommendedShipping"`

	// Operator overrides, zero-valued until edited.
	NeededQuantity float64 `json:"neededQuantity"`
	ShippingMethod string  `json:"shippingMethod,omitempty"`
	Comment        string  `json:"comment,omitempty"`
}

func (r *SuggestionRow) Key() RowKey {
	return RowKey{Market: r.MarketID, Company: r.Company, Item: r.ItemDescription}
}

// RecommendedQty parses the recommended-quantity field. The feed carries it as
// a string; anything unparseable counts as 0.
func (r *SuggestionRow) RecommendedQty() float64 {
	n, err := strconv.ParseFloat(r.RecommendedQuantity, 64)
	if err != nil {
		return 0
	}
	return n
}

// TotalCost is neededQuantity x unitCost rendered to two decimal places.
func (r *SuggestionRow) TotalCost() string {
	qty := decimal.NewFromFloat(r.NeededQuantity)
	cost := decimal.NewFromFloat(r.UnitCost)
	return qty.Mul(cost).StringFixed(2)
}

// ResolveShipping picks the method an approval will record: the operator's
// choice if one was made, else the computed recommendation, else "No order
// needed".
func (r *SuggestionRow) ResolveShipping() string {
	if r.ShippingMethod != "" {
		return r.ShippingMethod
	}
	if r.RecommendedShipping != "" {
		return r.RecommendedShipping
	}
	return ShipNone
}

// NormalizeQuantity coerces a raw recommended-quantity value to a canonical
// numeric string. Empty or unparseable input becomes "0".
func NormalizeQuantity(raw string) string {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
