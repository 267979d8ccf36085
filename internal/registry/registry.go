package registry

import "context"

// Item is one entry of the collection: a stable decimal id plus the token
// metadata URI the registry currently reports for it. Item identity is owned
// by the registry, not by likeness.
type Item struct {
	ID       string
	TokenURI string
}

// Enumerator produces the collection's items one at a time, in registry
// order. fn returning an error aborts the enumeration and surfaces that
// error to the caller.
type Enumerator interface {
	Enumerate(ctx context.Context, fn func(Item) error) error
}
