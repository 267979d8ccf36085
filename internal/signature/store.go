package signature

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrSignatureData indicates the reference signature file is malformed.
// Load failures are fatal: a run cannot classify without a valid store.
var ErrSignatureData = errors.New("reference signature data invalid")

// Store holds the reference signatures for a run in source order. The order
// entries appear in the backing file determines tie-break precedence during
// classification and never changes after load.
type Store struct {
	names      []string
	signatures map[string]Signature
}

// Entry pairs a reference name with its signature.
type Entry struct {
	Name      string
	Signature Signature
}

// NewStore builds a store from entries, preserving their order. Entries must
// share one bit length, carry non-empty unique names, and at least one entry
// must be present.
func NewStore(entries ...Entry) (*Store, error) {
	store := &Store{signatures: make(map[string]Signature, len(entries))}
	for _, entry := range entries {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: reference name must be a non-empty string", ErrSignatureData)
		}
		if _, exists := store.signatures[entry.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate reference %q", ErrSignatureData, entry.Name)
		}
		if entry.Signature.IsZero() {
			return nil, fmt.Errorf("%w: reference %q has no signature", ErrSignatureData, entry.Name)
		}
		if len(store.names) > 0 {
			first := store.signatures[store.names[0]]
			if entry.Signature.Len() != first.Len() {
				return nil, fmt.Errorf("%w: reference %q is %d bits, expected %d",
					ErrSignatureData, entry.Name, entry.Signature.Len(), first.Len())
			}
		}
		store.names = append(store.names, entry.Name)
		store.signatures[entry.Name] = entry.Signature
	}
	if len(store.names) == 0 {
		return nil, fmt.Errorf("%w: no references provided", ErrSignatureData)
	}
	return store, nil
}

// LoadStore reads a JSON object mapping reference names to hex-encoded
// signatures. Key order in the document is preserved. All entries must
// decode to the same bit length; mixed lengths are rejected at load rather
// than surfacing later as comparison failures.
func LoadStore(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrSignatureData, path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	tok, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", ErrSignatureData, path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: %q must contain a JSON object", ErrSignatureData, path)
	}

	var entries []Entry
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: read %q: %w", ErrSignatureData, path, err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: reference name must be a non-empty string", ErrSignatureData)
		}

		var encoded string
		if err := decoder.Decode(&encoded); err != nil {
			return nil, fmt.Errorf("%w: reference %q: %w", ErrSignatureData, name, err)
		}
		sig, err := ParseHex(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: reference %q: %w", ErrSignatureData, name, err)
		}
		entries = append(entries, Entry{Name: name, Signature: sig})
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", ErrSignatureData, path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q contains no references", ErrSignatureData, path)
	}
	return NewStore(entries...)
}

// Entries returns the stored references in source order.
func (s *Store) Entries() []Entry {
	entries := make([]Entry, 0, len(s.names))
	for _, name := range s.names {
		entries = append(entries, Entry{Name: name, Signature: s.signatures[name]})
	}
	return entries
}

// WriteFile writes the store as a JSON object with keys in source order, so
// a round trip through LoadStore preserves tie-break precedence.
func (s *Store) WriteFile(path string) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, name := range s.names {
		key, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("encode reference %q: %w", name, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": \"")
		buf.WriteString(s.signatures[name].Hex())
		buf.WriteString("\"")
		if i < len(s.names)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write references %q: %w", path, err)
	}
	return nil
}

// Len returns the number of references in the store.
func (s *Store) Len() int {
	return len(s.names)
}

// BitLength returns the bit length shared by all stored signatures.
func (s *Store) BitLength() int {
	if len(s.names) == 0 {
		return 0
	}
	return s.signatures[s.names[0]].Len()
}

// ForEach visits references in source order. Iteration stops early when fn
// returns false.
func (s *Store) ForEach(fn func(name string, sig Signature) bool) {
	for _, name := range s.names {
		if !fn(name, s.signatures[name]) {
			return
		}
	}
}
