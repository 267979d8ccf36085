// Package logging constructs the slog loggers used across likeness. It
// provides a human-oriented console handler and a JSON handler, plus small
// helpers for component-scoped loggers and attribute construction.
package logging
