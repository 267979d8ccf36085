// Package classify decides whether an item's signature matches any reference
// in the store. It is pure computation with no I/O, safe to call from
// concurrent workers.
package classify
