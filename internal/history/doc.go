// Package history persists an audit trail of reconciliation runs to SQLite.
// History is advisory: a run proceeds even when recording fails, and the
// package degrades to a no-op when no database path is configured.
package history
