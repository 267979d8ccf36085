// Package liststore reads and writes the published membership document: a
// flat JSON object mapping decimal item ids to true at a fixed endpoint.
package liststore
