// Package registry enumerates the items of an on-chain ERC-721 collection
// over JSON-RPC. Every run performs a fresh enumeration; no cursor is
// persisted between runs.
package registry
