package membership

import "testing"

func TestReconcileIdenticalSetsUnchanged(t *testing.T) {
	previous := FromIDs("1", "2")
	current := FromIDs("2", "1") // different insertion order
	decision := Reconcile(previous, current)
	if decision.Changed {
		t.Fatal("identical membership must not be a change")
	}
}

func TestReconcileAdditionIsChange(t *testing.T) {
	decision := Reconcile(FromIDs("1", "2"), FromIDs("1", "2", "3"))
	if !decision.Changed {
		t.Fatal("added member must be a change")
	}
}

func TestReconcileRemovalIsChange(t *testing.T) {
	decision := Reconcile(FromIDs("1", "2"), FromIDs("1"))
	if !decision.Changed {
		t.Fatal("removed member must be a change")
	}
}

func TestReconcileSwapIsChange(t *testing.T) {
	decision := Reconcile(FromIDs("1", "2"), FromIDs("1", "3"))
	if !decision.Changed {
		t.Fatal("swapped member must be a change")
	}
}

func TestReconcileEmptySets(t *testing.T) {
	if Reconcile(NewSet(), NewSet()).Changed {
		t.Fatal("two empty sets must not be a change")
	}
	if !Reconcile(NewSet(), FromIDs("1")).Changed {
		t.Fatal("bootstrap with a new member must be a change")
	}
}

func TestReconcileNilSets(t *testing.T) {
	decision := Reconcile(nil, nil)
	if decision.Changed {
		t.Fatal("nil sets must reconcile as empty and unchanged")
	}
	if len(decision.PreviousIDs) != 0 || len(decision.CurrentIDs) != 0 {
		t.Fatalf("expected empty id sequences, got %v / %v", decision.PreviousIDs, decision.CurrentIDs)
	}
}

func TestReconcileReportsSortedSequences(t *testing.T) {
	decision := Reconcile(FromIDs("2", "105"), FromIDs("12"))
	if decision.PreviousIDs[0] != "105" || decision.PreviousIDs[1] != "2" {
		t.Fatalf("previous ids not sorted lexically: %v", decision.PreviousIDs)
	}
	if decision.CurrentIDs[0] != "12" {
		t.Fatalf("unexpected current ids: %v", decision.CurrentIDs)
	}
}
