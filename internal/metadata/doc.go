// Package metadata resolves an item's token URI to the URL of its current
// artwork.
package metadata
