package ledger

import "errors"

// ItemResult is the outcome of one item of a bulk operation.
type ItemResult struct {
	ID  string
	Err error
}

// BatchResult collects per-item outcomes of a bulk operation. Items are
// attempted one by one; a failure does not stop the remaining items.
type BatchResult struct {
	Items []ItemResult
}

func (b *BatchResult) add(id string, err error) {
	b.Items = append(b.Items, ItemResult{ID: id, Err: err})
}

// OK reports whether every item succeeded.
func (b BatchResult) OK() bool {
	return len(b.Failed()) == 0
}

// Succeeded returns the number of items that succeeded.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, item := range b.Items {
		if item.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the items that failed.
func (b BatchResult) Failed() []ItemResult {
	var failed []ItemResult
	for _, item := range b.Items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}

// Err joins the item errors, or returns nil when all succeeded.
func (b BatchResult) Err() error {
	var errs []error
	for _, item := range b.Failed() {
		errs = append(errs, item.Err)
	}
	return errors.Join(errs...)
}

func (b *BatchResult) merge(other BatchResult) {
	b.Items = append(b.Items, other.Items...)
}
