// Package runner drives one reconciliation run: enumerate the collection,
// resolve and hash each item's artwork, classify it against the reference
// store, rebuild the membership set from scratch, and publish it when it
// differs from the previously published set.
//
// Per-item failures are isolated: a single item that cannot be resolved or
// hashed is logged and dropped from the current run without aborting it. A
// consequence of full-rebuild semantics is that a transient failure can make
// a previously listed item vanish from the republished list for one run; the
// runner surfaces this with a warning rather than papering over it.
package runner
