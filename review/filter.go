package review

import (
	"sort"

	"srs/model"
)

// FilterAll is the sentinel selector value that disables a dimension.
const FilterAll = "ALL"

// Filter dimension names as the front end sends them.
const (
	DimMarket   = "market"
	DimCustomer = "customer"
	DimItem     = "item"
	DimDate     = "date"
	DimQuantity = "quantity"
)

// FilterState holds the five independent selector values. Customer and item
// are dependent dimensions: their option sets shrink as market and customer
// narrow, and a selection that falls out of its option set resets to ALL.
type FilterState struct {
	Market   string `json:"market"`
	Customer string `json:"customer"`
	Item     string `json:"item"`
	Date     string `json:"date"`
	Quantity string `json:"quantity"`
}

func NewFilterState() FilterState {
	return FilterState{
		Market:   FilterAll,
		Customer: FilterAll,
		Item:     FilterAll,
		Date:     FilterAll,
		Quantity: FilterAll,
	}
}

// Options are the dropdown option sets derived from the canonical row set.
type Options struct {
	Markets   []string `json:"markets"`
	Customers []string `json:"customers"`
	Items     []string `json:"items"`
	Dates     []string `json:"dates"`
}

// ComputeOptions derives the option sets for the current filter state.
// Markets and dates always come from the full row set; customers honor the
// market selection; items honor market and customer.
func ComputeOptions(rows []*model.SuggestionRow, f FilterState) Options {
	var opts Options

	marketSet := make(map[string]bool)
	dateSet := make(map[string]bool)
	customerSet := make(map[string]bool)
	itemSet := make(map[string]bool)

	for _, r := range rows {
		if r.MarketID != "" {
			marketSet[r.MarketID] = true
		}
		if r.Date != "" {
			dateSet[r.Date] = true
		}
		if !matchValue(f.Market, r.MarketID) {
			continue
		}
		if r.CustomerNumber != "" {
			customerSet[r.CustomerNumber] = true
		}
		if !matchValue(f.Customer, r.CustomerNumber) {
			continue
		}
		if r.ItemDescription != "" {
			itemSet[r.ItemDescription] = true
		}
	}

	opts.Markets = sortedKeys(marketSet)
	opts.Dates = sortedKeys(dateSet)
	opts.Customers = sortedKeys(customerSet)
	opts.Items = sortedKeys(itemSet)
	return opts
}

// ApplyFilters returns the subset of rows satisfying all five predicates,
// preserving the order of the input. The result shares the input's row
// pointers: it is a projection, not a copy.
func ApplyFilters(rows []*model.SuggestionRow, f FilterState) []*model.SuggestionRow {
	var visible []*model.SuggestionRow
	for _, r := range rows {
		if !matchValue(f.Market, r.MarketID) {
			continue
		}
		if !matchValue(f.Customer, r.CustomerNumber) {
			continue
		}
		if !matchValue(f.Item, r.ItemDescription) {
			continue
		}
		if !matchValue(f.Date, r.Date) {
			continue
		}
		if !matchQuantityClass(f.Quantity, r.RecommendedQty()) {
			continue
		}
		visible = append(visible, r)
	}
	return visible
}

func matchValue(selector, value string) bool {
	return selector == FilterAll || selector == "" || selector == value
}

// matchQuantityClass buckets the recommended quantity by sign. Unknown
// selector values behave like ALL, as the original filter did.
func matchQuantityClass(selector string, qty float64) bool {
	switch selector {
	case model.QuantityDeficit:
		return qty < 0
	case model.QuantityNone:
		return qty == 0
	case model.QuantityExcess:
		return qty > 0
	default:
		return true
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
