package review

import (
	"testing"

	"srs/model"
)

func testRows() []*model.SuggestionRow {
	return []*model.SuggestionRow{
		{Date: "01/03/2025", MarketID: "M1", CustomerNumber: "C1", Company: "Acme", ItemDescription: "Widget", RecommendedQuantity: "-5", UnitCost: 10},
		{Date: "01/03/2025", MarketID: "M1", CustomerNumber: "C2", Company: "Globex", ItemDescription: "Gadget", RecommendedQuantity: "0", UnitCost: 2},
		{Date: "01/02/2025", MarketID: "M2", CustomerNumber: "C3", Company: "Initech", ItemDescription: "Sprocket", RecommendedQuantity: "7", UnitCost: 4.5},
		{Date: "01/01/2025", MarketID: "M2", CustomerNumber: "C3", Company: "Initech", ItemDescription: "Flange", RecommendedQuantity: "3", UnitCost: 1.25},
		{Date: "01/01/2025", MarketID: "M1", CustomerNumber: "C1", Company: "Acme", ItemDescription: "Bolt", RecommendedQuantity: "-1", UnitCost: 0.5},
	}
}

func TestComputeOptions_DependentSets(t *testing.T) {
	rows := testRows()

	f := NewFilterState()
	opts := ComputeOptions(rows, f)

	wantMarkets := []string{"M1", "M2"}
	if len(opts.Markets) != 2 || opts.Markets[0] != wantMarkets[0] || opts.Markets[1] != wantMarkets[1] {
		t.Errorf("Expected markets %v, got %v", wantMarkets, opts.Markets)
	}
	if len(opts.Customers) != 3 {
		t.Errorf("Expected 3 customers with no market filter, got %v", opts.Customers)
	}

	f.Market = "M2"
	opts = ComputeOptions(rows, f)
	if len(opts.Customers) != 1 || opts.Customers[0] != "C3" {
		t.Errorf("Expected customers [C3] for market M2, got %v", opts.Customers)
	}
	if len(opts.Items) != 2 {
		t.Errorf("Expected 2 items for market M2, got %v", opts.Items)
	}

	// Markets and dates stay derived from the full row set.
	if len(opts.Markets) != 2 {
		t.Errorf("Market options must not shrink under a market filter, got %v", opts.Markets)
	}
	if len(opts.Dates) != 3 {
		t.Errorf("Expected 3 distinct dates, got %v", opts.Dates)
	}
}

func TestComputeOptions_ItemsHonorCustomer(t *testing.T) {
	rows := []*model.SuggestionRow{
		{MarketID: "M1", CustomerNumber: "C1", ItemDescription: "A"},
		{MarketID: "M1", CustomerNumber: "C2", ItemDescription: "B"},
	}
	f := NewFilterState()
	f.Customer = "C2"
	opts := ComputeOptions(rows, f)
	if len(opts.Items) != 1 || opts.Items[0] != "B" {
		t.Errorf("Expected items [B] for customer C2, got %v", opts.Items)
	}
}

func TestApplyFilters_SubsetAndOrderStable(t *testing.T) {
	rows := testRows()

	tests := []struct {
		name      string
		mutate    func(*FilterState)
		wantItems []string
	}{
		{
			name:      "all_pass_through",
			mutate:    func(f *FilterState) {},
			wantItems: []string{"Widget", "Gadget", "Sprocket", "Flange", "Bolt"},
		},
		{
			name:      "market_only",
			mutate:    func(f *FilterState) { f.Market = "M1" },
			wantItems: []string{"Widget", "Gadget", "Bolt"},
		},
		{
			name: "market_and_customer",
			mutate: func(f *FilterState) {
				f.Market = "M1"
				f.Customer = "C1"
			},
			wantItems: []string{"Widget", "Bolt"},
		},
		{
			name:      "date",
			mutate:    func(f *FilterState) { f.Date = "01/01/2025" },
			wantItems: []string{"Flange", "Bolt"},
		},
		{
			name:      "quantity_deficit",
			mutate:    func(f *FilterState) { f.Quantity = model.QuantityDeficit },
			wantItems: []string{"Widget", "Bolt"},
		},
		{
			name:      "quantity_none",
			mutate:    func(f *FilterState) { f.Quantity = model.QuantityNone },
			wantItems: []string{"Gadget"},
		},
		{
			name:      "quantity_excess",
			mutate:    func(f *FilterState) { f.Quantity = model.QuantityExcess },
			wantItems: []string{"Sprocket", "Flange"},
		},
		{
			name: "conjunction_of_predicates",
			mutate: func(f *FilterState) {
				f.Market = "M1"
				f.Quantity = model.QuantityDeficit
				f.Date = "01/03/2025"
			},
			wantItems: []string{"Widget"},
		},
		{
			name:      "no_match",
			mutate:    func(f *FilterState) { f.Item = "Nonexistent" },
			wantItems: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilterState()
			tt.mutate(&f)
			got := ApplyFilters(rows, f)
			if len(got) != len(tt.wantItems) {
				t.Fatalf("Expected %d rows, got %d", len(tt.wantItems), len(got))
			}
			for i, r := range got {
				if r.ItemDescription != tt.wantItems[i] {
					t.Errorf("Row %d: expected %s, got %s", i, tt.wantItems[i], r.ItemDescription)
				}
			}
		})
	}
}

func TestApplyFilters_SharesRowPointers(t *testing.T) {
	rows := testRows()
	f := NewFilterState()
	f.Market = "M1"
	got := ApplyFilters(rows, f)
	if len(got) == 0 {
		t.Fatal("Expected at least one row")
	}
	got[0].NeededQuantity = 42
	if rows[0].NeededQuantity != 42 {
		t.Error("Filtered view must share pointers with the canonical set, not copy rows")
	}
}

func TestMatchQuantityClass_UnknownSelectorActsAsAll(t *testing.T) {
	if !matchQuantityClass("bogus_value", -3) {
		t.Error("Unknown quantity selector should not filter anything out")
	}
}
