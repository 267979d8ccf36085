// Package membership holds the canonical membership set built during a run
// and the reconciliation decision against the previously published set. The
// set is rebuilt from scratch every run; nothing is patched incrementally.
package membership
