package classify

import (
	"likeness/internal/signature"
)

// Result records the classification of a single item. Produced once per item
// and never mutated afterwards.
type Result struct {
	ItemID    string
	Matched   bool
	Reference string
	Distance  int
}

// Classify compares the item's signature against the store in source order
// and returns the first reference within threshold. The first sufficiently
// close reference wins even when a later one is closer; store order is the
// tie-break and the scan short-circuits on the first hit. Distance exactly
// equal to threshold is a match.
//
// The only error condition is a signature length mismatch between the item
// and the store, which indicates misconfigured references rather than bad
// item data.
func Classify(itemID string, sig signature.Signature, store *signature.Store, threshold int) (Result, error) {
	result := Result{ItemID: itemID}

	var iterErr error
	store.ForEach(func(name string, ref signature.Signature) bool {
		distance, err := sig.Distance(ref)
		if err != nil {
			iterErr = err
			return false
		}
		if distance <= threshold {
			result.Matched = true
			result.Reference = name
			result.Distance = distance
			return false
		}
		return true
	})
	if iterErr != nil {
		return Result{ItemID: itemID}, iterErr
	}
	return result, nil
}
