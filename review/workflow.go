package review

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"srs/model"
)

// Workflow is one reviewer's working set: the canonical rows fetched for the
// session's date range plus filter, selection, override, and page state.
// Every filtered or paged view is a projection over the canonical slice, so
// an edit made on one page is still there after re-filtering or re-paging.
//
// The mutex serializes all access; the handlers never touch the fields
// directly. One workflow belongs to one session and nothing else writes to it.
type Workflow struct {
	mu       sync.Mutex
	role     string
	pageSize int

	rows    []*model.SuggestionRow
	index   map[model.RowKey]*model.SuggestionRow
	filters FilterState
	options Options
	visible []*model.SuggestionRow

	selected map[model.RowKey]bool
	page     int
}

// RowView is a page row as the front end sees it: the suggestion fields plus
// the live selection flag and the derived total cost.
type RowView struct {
	*model.SuggestionRow
	Key       model.RowKey `json:"key"`
	Selected  bool         `json:"selected"`
	TotalCost string       `json:"totalCost"`
}

// PageView is the full response for one rendered page.
type PageView struct {
	Rows          []RowView   `json:"rows"`
	Page          int         `json:"page"`
	PageCount     int         `json:"pageCount"`
	PageSize      int         `json:"pageSize"`
	TotalRows     int         `json:"totalRows"`
	SelectedCount int         `json:"selectedCount"`
	Filters       FilterState `json:"filters"`
	Options       Options     `json:"options"`
}

// NewWorkflow builds a workflow over rows already shaped by the fetch layer
// (date-descending, quantities normalized, non-admin rows pre-filtered to the
// session's market). A non-admin role pins the market dimension.
func NewWorkflow(rows []*model.SuggestionRow, role string, pageSize int) *Workflow {
	if pageSize <= 0 {
		pageSize = 1000
	}
	w := &Workflow{
		role:     role,
		pageSize: pageSize,
		rows:     rows,
		index:    make(map[model.RowKey]*model.SuggestionRow, len(rows)),
		filters:  NewFilterState(),
		selected: make(map[model.RowKey]bool),
		page:     1,
	}
	if role != model.RoleAdmin {
		w.filters.Market = role
	}
	for _, r := range rows {
		w.index[r.Key()] = r
	}
	w.options = ComputeOptions(w.rows, w.filters)
	w.visible = ApplyFilters(w.rows, w.filters)
	return w
}

// SetFilter updates one dimension, re-derives the dependent option sets, and
// re-applies the row filter. Option recomputation runs before filtering so a
// customer or item selection that no longer exists resets to ALL instead of
// silently filtering everything out. Returns to page 1.
func (w *Workflow) SetFilter(dimension, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if value == "" {
		value = FilterAll
	}
	switch dimension {
	case DimMarket:
		if w.role != model.RoleAdmin {
			return fmt.Errorf("market is fixed for role %q", w.role)
		}
		w.filters.Market = value
	case DimCustomer:
		w.filters.Customer = value
	case DimItem:
		w.filters.Item = value
	case DimDate:
		w.filters.Date = value
	case DimQuantity:
		w.filters.Quantity = value
	default:
		return fmt.Errorf("unknown filter dimension %q", dimension)
	}

	w.recomputeLocked()
	return nil
}

func (w *Workflow) recomputeLocked() {
	w.options = ComputeOptions(w.rows, w.filters)
	if w.filters.Customer != FilterAll && !containsOption(w.options.Customers, w.filters.Customer) {
		w.filters.Customer = FilterAll
		// The customer reset widens the item option set.
		w.options = ComputeOptions(w.rows, w.filters)
	}
	if w.filters.Item != FilterAll && !containsOption(w.options.Items, w.filters.Item) {
		w.filters.Item = FilterAll
	}
	w.visible = ApplyFilters(w.rows, w.filters)
	w.page = 1
}

// Page selects and returns the n-th page of the filtered view, clamped to the
// valid range.
func (w *Workflow) Page(n int) PageView {
	w.mu.Lock()
	defer w.mu.Unlock()

	pageCount := (len(w.visible) + w.pageSize - 1) / w.pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	if n < 1 {
		n = 1
	}
	if n > pageCount {
		n = pageCount
	}
	w.page = n

	slice := w.pageSliceLocked()
	views := make([]RowView, 0, len(slice))
	for _, r := range slice {
		views = append(views, RowView{
			SuggestionRow: r,
			Key:           r.Key(),
			Selected:      w.selected[r.Key()],
			TotalCost:     r.TotalCost(),
		})
	}

	return PageView{
		Rows:          views,
		Page:          w.page,
		PageCount:     pageCount,
		PageSize:      w.pageSize,
		TotalRows:     len(w.visible),
		SelectedCount: len(w.selected),
		Filters:       w.filters,
		Options:       w.options,
	}
}

func (w *Workflow) pageSliceLocked() []*model.SuggestionRow {
	start := (w.page - 1) * w.pageSize
	if start >= len(w.visible) {
		return nil
	}
	end := start + w.pageSize
	if end > len(w.visible) {
		end = len(w.visible)
	}
	return w.visible[start:end]
}

// ToggleRow checks or unchecks one row on the currently rendered page.
// Rows outside the page are not toggleable, same as a checkbox that is not
// on screen.
func (w *Workflow) ToggleRow(key model.RowKey, checked bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range w.pageSliceLocked() {
		if r.Key() == key {
			if checked {
				w.selected[key] = true
			} else {
				delete(w.selected, key)
			}
			return true
		}
	}
	return false
}

// ToggleAll checks or unchecks every row on the currently rendered page.
// Selection state of rows on other pages is untouched. Returns the number of
// rows affected.
func (w *Workflow) ToggleAll(checked bool) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	slice := w.pageSliceLocked()
	for _, r := range slice {
		if checked {
			w.selected[r.Key()] = true
		} else {
			delete(w.selected, r.Key())
		}
	}
	return len(slice)
}

// SetNeededQuantity records the operator's order quantity and returns the
// recomputed total cost. Unparseable input counts as 0 on purpose: the grid
// must stay usable while a row is half-filled. The second return is false
// only when the key matches no row.
func (w *Workflow) SetNeededQuantity(key model.RowKey, raw string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	row, ok := w.index[key]
	if !ok {
		return "", false
	}
	row.NeededQuantity = lenientFloat(raw)
	return row.TotalCost(), true
}

// SetShippingMethod records the operator's shipping choice. Values outside
// the fixed enumeration are discarded without error; the caller is the
// trusted UI, not an open API.
func (w *Workflow) SetShippingMethod(key model.RowKey, value string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	row, ok := w.index[key]
	if !ok {
		return false
	}
	if !model.ValidShippingMethod(value) {
		return true
	}
	row.ShippingMethod = value
	return true
}

// SetComment stores the operator's comment verbatim.
func (w *Workflow) SetComment(key model.RowKey, text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	row, ok := w.index[key]
	if !ok {
		return false
	}
	row.Comment = text
	return true
}

// SelectedKeys returns the selected identities in canonical row order.
func (w *Workflow) SelectedKeys() []model.RowKey {
	w.mu.Lock()
	defer w.mu.Unlock()

	var keys []model.RowKey
	for _, r := range w.rows {
		if w.selected[r.Key()] {
			keys = append(keys, r.Key())
		}
	}
	return keys
}

func lenientFloat(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return n
}

// selectionLocked returns the selected rows in canonical row order.
func (w *Workflow) selectionLocked() []*model.SuggestionRow {
	var batch []*model.SuggestionRow
	for _, r := range w.rows {
		if w.selected[r.Key()] {
			batch = append(batch, r)
		}
	}
	return batch
}
