package review

import (
	"errors"
	"fmt"

	"srs/model"
)

// Validation errors caught before any write is attempted.
var (
	ErrEmptySelection = errors.New("no rows selected for approval")
	ErrNoApprover     = errors.New("approver identity is required")
)

// HistoryWriter appends one approved record to the durable history log.
type HistoryWriter interface {
	Append(rec model.HistoryRecord) error
}

// HistoryWriterFunc adapts a plain function to HistoryWriter.
type HistoryWriterFunc func(rec model.HistoryRecord) error

func (f HistoryWriterFunc) Append(rec model.HistoryRecord) error { return f(rec) }

// ApprovalOutcome reports what a batch submission actually did. FailedIndex
// is -1 when every row went through; otherwise it is the position in the
// batch of the row whose write failed, and Submitted counts the rows written
// before it. A batch is never summarized as a bare success/failure bool
// because a failed batch can still have committed rows.
type ApprovalOutcome struct {
	Submitted   int           `json:"submitted"`
	FailedIndex int           `json:"failedIndex"`
	FailedItem  string        `json:"failedItem,omitempty"`
	FailedKey   *model.RowKey `json:"failedKey,omitempty"`
}

// SubmitApproval writes the selected rows to the history store one at a
// time, in canonical row order, stopping at the first failure.
//
// This loop is sequential on purpose. Writes that already succeeded stand,
// there is no rollback, and on failure the selection is left exactly as it
// was so the operator can retry. Retrying may append duplicates for the rows
// that made it through (at-least-once). On full success the selection is
// cleared for exactly the rows of this batch.
func (w *Workflow) SubmitApproval(approver string, store HistoryWriter) (ApprovalOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	outcome := ApprovalOutcome{FailedIndex: -1}
	if approver == "" {
		return outcome, ErrNoApprover
	}
	batch := w.selectionLocked()
	if len(batch) == 0 {
		return outcome, ErrEmptySelection
	}

	for i, row := range batch {
		rec := model.HistoryRecord{
			MarketID:            row.MarketID,
			Company:             row.Company,
			ItemDescription:     row.ItemDescription,
			Cost:                row.UnitCost,
			TotalStock:          row.TotalStock,
			OriginalRecommended: row.RecommendedQty(),
			OrderQty:            row.NeededQuantity,
			TotalCost:           row.TotalCost(),
			ShippingMethod:      row.ResolveShipping(),
			ApprovedBy:          approver,
			Comment:             row.Comment,
		}
		if err := store.Append(rec); err != nil {
			key := row.Key()
			outcome.FailedIndex = i
			outcome.FailedItem = row.ItemDescription
			outcome.FailedKey = &key
			return outcome, fmt.Errorf("failed to submit %s: %w", row.ItemDescription, err)
		}
		outcome.Submitted++
	}

	for _, row := range batch {
		delete(w.selected, row.Key())
	}
	return outcome, nil
}
