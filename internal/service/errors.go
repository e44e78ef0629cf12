package service

import "fmt"

// Stage names the submission step a persistence failure occurred in. The
// stage tag is the handle later reconciliation works from: "sale" means
// nothing was written, "line_items" means an orphaned sale header exists,
// and "stock" means the sale and its items exist but only the decrements up
// to (not including) ProductID were applied.
type Stage string

const (
	StageSale      Stage = "sale"
	StageLineItems Stage = "line_items"
	StageStock     Stage = "stock"
)

// SubmitError reports a persistence failure from one specific submission
// stage. ProductID is set only for StageStock, naming the decrement that
// failed. The workflow never compensates; the caller decides what a partial
// submission means.
type SubmitError struct {
	Stage     Stage
	ProductID string
	Err       error
}

func (e *SubmitError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("sale submission failed at stage %s (product %s): %v", e.Stage, e.ProductID, e.Err)
	}
	return fmt.Sprintf("sale submission failed at stage %s: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
