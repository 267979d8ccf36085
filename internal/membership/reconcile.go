package membership

// Decision is the outcome of comparing the current run's set against the
// previously published one. Derived, never stored.
type Decision struct {
	Changed     bool
	PreviousIDs []string
	CurrentIDs  []string
}

// Reconcile compares the previous and current sets by sorted id sequence.
// Any membership delta, addition or removal, flips Changed; internal
// representation and insertion order never do. No minimal diff is computed:
// the decision is binary, publish or don't.
func Reconcile(previous, current *Set) Decision {
	if previous == nil {
		previous = NewSet()
	}
	if current == nil {
		current = NewSet()
	}

	prevIDs := previous.IDs()
	curIDs := current.IDs()

	decision := Decision{PreviousIDs: prevIDs, CurrentIDs: curIDs}
	if len(prevIDs) != len(curIDs) {
		decision.Changed = true
		return decision
	}
	for i := range prevIDs {
		if prevIDs[i] != curIDs[i] {
			decision.Changed = true
			return decision
		}
	}
	return decision
}
