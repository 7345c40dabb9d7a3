package review

import (
	"fmt"
	"testing"

	"srs/model"
)

func newTestWorkflow(t *testing.T, rows []*model.SuggestionRow, role string, pageSize int) *Workflow {
	t.Helper()
	return NewWorkflow(rows, role, pageSize)
}

func TestSetFilter_MarketChangeResetsDanglingSelections(t *testing.T) {
	rows := testRows()
	wf := newTestWorkflow(t, rows, model.RoleAdmin, 100)

	if err := wf.SetFilter(DimMarket, "M1"); err != nil {
		t.Fatalf("SetFilter market: %v", err)
	}
	if err := wf.SetFilter(DimCustomer, "C1"); err != nil {
		t.Fatalf("SetFilter customer: %v", err)
	}
	if err := wf.SetFilter(DimItem, "Widget"); err != nil {
		t.Fatalf("SetFilter item: %v", err)
	}

	page := wf.Page(1)
	if page.TotalRows != 1 {
		t.Fatalf("Expected 1 visible row, got %d", page.TotalRows)
	}

	// C1 and Widget do not exist under M2: both must reset to ALL instead of
	// filtering everything out.
	if err := wf.SetFilter(DimMarket, "M2"); err != nil {
		t.Fatalf("SetFilter market: %v", err)
	}
	page = wf.Page(1)
	if page.Filters.Customer != FilterAll {
		t.Errorf("Expected customer reset to ALL, got %q", page.Filters.Customer)
	}
	if page.Filters.Item != FilterAll {
		t.Errorf("Expected item reset to ALL, got %q", page.Filters.Item)
	}
	if page.TotalRows != 2 {
		t.Errorf("Expected the 2 M2 rows visible after reset, got %d", page.TotalRows)
	}
}

func TestSetFilter_SurvivingSelectionIsKept(t *testing.T) {
	rows := []*model.SuggestionRow{
		{MarketID: "M1", CustomerNumber: "C1", ItemDescription: "A"},
		{MarketID: "M2", CustomerNumber: "C1", ItemDescription: "B"},
	}
	wf := newTestWorkflow(t, rows, model.RoleAdmin, 100)

	if err := wf.SetFilter(DimCustomer, "C1"); err != nil {
		t.Fatalf("SetFilter customer: %v", err)
	}
	if err := wf.SetFilter(DimMarket, "M2"); err != nil {
		t.Fatalf("SetFilter market: %v", err)
	}
	page := wf.Page(1)
	if page.Filters.Customer != "C1" {
		t.Errorf("Customer C1 still exists under M2 and must survive, got %q", page.Filters.Customer)
	}
}

func TestSetFilter_MarketPinnedForNonAdmin(t *testing.T) {
	wf := newTestWorkflow(t, testRows(), "M1", 100)

	if err := wf.SetFilter(DimMarket, "M2"); err == nil {
		t.Error("Expected an error changing the market on a pinned session")
	}
	if err := wf.SetFilter(DimCustomer, "C1"); err != nil {
		t.Errorf("Non-market dimensions must stay interactive: %v", err)
	}
}

func TestPage_SlicingAndClamping(t *testing.T) {
	var rows []*model.SuggestionRow
	for i := 0; i < 25; i++ {
		rows = append(rows, &model.SuggestionRow{
			MarketID:        "M1",
			Company:         "Acme",
			ItemDescription: fmt.Sprintf("Item-%02d", i),
		})
	}
	wf := newTestWorkflow(t, rows, model.RoleAdmin, 10)

	page := wf.Page(2)
	if page.PageCount != 3 {
		t.Errorf("Expected 3 pages, got %d", page.PageCount)
	}
	if len(page.Rows) != 10 {
		t.Errorf("Expected 10 rows on page 2, got %d", len(page.Rows))
	}
	if page.Rows[0].ItemDescription != "Item-10" {
		t.Errorf("Expected page 2 to start at Item-10, got %s", page.Rows[0].ItemDescription)
	}

	page = wf.Page(99)
	if page.Page != 3 {
		t.Errorf("Expected out-of-range page clamped to 3, got %d", page.Page)
	}
	if len(page.Rows) != 5 {
		t.Errorf("Expected 5 rows on the last page, got %d", len(page.Rows))
	}

	page = wf.Page(0)
	if page.Page != 1 {
		t.Errorf("Expected page 0 clamped to 1, got %d", page.Page)
	}
}

func TestToggleAll_CurrentPageOnly(t *testing.T) {
	var rows []*model.SuggestionRow
	for i := 0; i < 25; i++ {
		rows = append(rows, &model.SuggestionRow{
			MarketID:        "M1",
			Company:         "Acme",
			ItemDescription: fmt.Sprintf("Item-%02d", i),
		})
	}
	wf := newTestWorkflow(t, rows, model.RoleAdmin, 10)

	// Select one row on page 1, then select-all on page 2.
	wf.Page(1)
	if !wf.ToggleRow(rows[3].Key(), true) {
		t.Fatal("ToggleRow on a page-1 row should succeed")
	}
	wf.Page(2)
	if n := wf.ToggleAll(true); n != 10 {
		t.Fatalf("Expected ToggleAll to touch 10 rows, got %d", n)
	}

	keys := wf.SelectedKeys()
	if len(keys) != 11 {
		t.Fatalf("Expected 11 selected rows (1 from page 1, 10 from page 2), got %d", len(keys))
	}

	// Deselect-all on page 2 must leave the page-1 selection alone.
	wf.ToggleAll(false)
	keys = wf.SelectedKeys()
	if len(keys) != 1 || keys[0] != rows[3].Key() {
		t.Errorf("Expected only the page-1 row to stay selected, got %v", keys)
	}
}

func TestToggleRow_OffPageRowIsNotToggleable(t *testing.T) {
	var rows []*model.SuggestionRow
	for i := 0; i < 15; i++ {
		rows = append(rows, &model.SuggestionRow{
			MarketID:        "M1",
			Company:         "Acme",
			ItemDescription: fmt.Sprintf("Item-%02d", i),
		})
	}
	wf := newTestWorkflow(t, rows, model.RoleAdmin, 10)
	wf.Page(1)

	if wf.ToggleRow(rows[12].Key(), true) {
		t.Error("A row on another page has no rendered checkbox and must not toggle")
	}
}

func TestSetNeededQuantity_RecomputesTotalCost(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		cost  float64
		want  string
		wantQ float64
	}{
		{"integer", "8", 10, "80.00", 8},
		{"fractional", "2.5", 4.2, "10.50", 2.5},
		{"empty_coerces_to_zero", "", 10, "0.00", 0},
		{"garbage_coerces_to_zero", "abc", 10, "0.00", 0},
		{"negative", "-3", 2, "-6.00", -3},
		{"rounding", "3", 0.115, "0.35", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := &model.SuggestionRow{MarketID: "M1", Company: "Acme", ItemDescription: "Widget", UnitCost: tt.cost}
			wf := newTestWorkflow(t, []*model.SuggestionRow{row}, model.RoleAdmin, 10)

			total, ok := wf.SetNeededQuantity(row.Key(), tt.raw)
			if !ok {
				t.Fatal("Expected the row to be found")
			}
			if total != tt.want {
				t.Errorf("Expected total cost %s, got %s", tt.want, total)
			}
			if row.NeededQuantity != tt.wantQ {
				t.Errorf("Expected needed quantity %g, got %g", tt.wantQ, row.NeededQuantity)
			}
		})
	}
}

func TestSetShippingMethod_RejectsOutOfSetValues(t *testing.T) {
	row := &model.SuggestionRow{MarketID: "M1", Company: "Acme", ItemDescription: "Widget"}
	wf := newTestWorkflow(t, []*model.SuggestionRow{row}, model.RoleAdmin, 10)

	if !wf.SetShippingMethod(row.Key(), model.ShipGround) {
		t.Fatal("Expected the row to be found")
	}
	if row.ShippingMethod != model.ShipGround {
		t.Errorf("Expected shipping %q, got %q", model.ShipGround, row.ShippingMethod)
	}

	// Out-of-set value: no mutation, no error.
	if !wf.SetShippingMethod(row.Key(), "Carrier pigeon") {
		t.Fatal("Key lookup should still succeed for an invalid value")
	}
	if row.ShippingMethod != model.ShipGround {
		t.Errorf("Invalid shipping value must not overwrite, got %q", row.ShippingMethod)
	}
}

func TestOverrides_PersistAcrossRefilter(t *testing.T) {
	rows := testRows()
	wf := newTestWorkflow(t, rows, model.RoleAdmin, 100)
	key := rows[0].Key() // Widget, M1

	wf.SetNeededQuantity(key, "8")
	wf.SetComment(key, "rush order")

	// Filter Widget out, then bring it back.
	if err := wf.SetFilter(DimMarket, "M2"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if err := wf.SetFilter(DimMarket, "M1"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}

	page := wf.Page(1)
	for _, rv := range page.Rows {
		if rv.Key == key {
			if rv.NeededQuantity != 8 {
				t.Errorf("Expected needed quantity 8 after re-filter, got %g", rv.NeededQuantity)
			}
			if rv.Comment != "rush order" {
				t.Errorf("Expected comment to survive re-filter, got %q", rv.Comment)
			}
			if rv.TotalCost != "80.00" {
				t.Errorf("Expected total cost 80.00, got %s", rv.TotalCost)
			}
			return
		}
	}
	t.Fatal("Widget row not found after re-filter")
}
