package signature

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeReferences(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "references.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write references: %v", err)
	}
	return path
}

func TestLoadStorePreservesSourceOrder(t *testing.T) {
	path := writeReferences(t, `{
		"poseC": "ff00",
		"poseA": "00ff",
		"poseB": "f00f"
	}`)
	store, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore returned error: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 references, got %d", store.Len())
	}
	if store.BitLength() != 16 {
		t.Fatalf("expected 16-bit signatures, got %d", store.BitLength())
	}

	var names []string
	store.ForEach(func(name string, _ Signature) bool {
		names = append(names, name)
		return true
	})
	want := []string{"poseC", "poseA", "poseB"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("unexpected order: got %v want %v", names, want)
		}
	}
}

func TestLoadStoreForEachStopsEarly(t *testing.T) {
	path := writeReferences(t, `{"a": "ff00", "b": "00ff"}`)
	store, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore returned error: %v", err)
	}
	visited := 0
	store.ForEach(func(string, Signature) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("expected one visit, got %d", visited)
	}
}

func TestLoadStoreRejectsMixedLengths(t *testing.T) {
	path := writeReferences(t, `{"a": "ff00", "b": "ff0000"}`)
	if _, err := LoadStore(path); !errors.Is(err, ErrSignatureData) {
		t.Fatalf("expected ErrSignatureData, got %v", err)
	}
}

func TestLoadStoreRejectsMalformedDocuments(t *testing.T) {
	for name, body := range map[string]string{
		"not an object": `["ff00"]`,
		"bad hex":       `{"a": "zz00"}`,
		"empty name":    `{"": "ff00"}`,
		"empty object":  `{}`,
		"non-string":    `{"a": 12}`,
		"duplicate":     `{"a": "ff00", "a": "ff00"}`,
		"truncated":     `{"a": "ff00"`,
	} {
		path := writeReferences(t, body)
		if _, err := LoadStore(path); !errors.Is(err, ErrSignatureData) {
			t.Fatalf("%s: expected ErrSignatureData, got %v", name, err)
		}
	}
}

func TestWriteFileRoundTripKeepsOrder(t *testing.T) {
	path := writeReferences(t, `{
		"poseC": "ff00",
		"poseA": "00ff"
	}`)
	store, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore returned error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "copy.json")
	if err := store.WriteFile(out); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	reloaded, err := LoadStore(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	entries := reloaded.Entries()
	if len(entries) != 2 || entries[0].Name != "poseC" || entries[1].Name != "poseA" {
		t.Fatalf("unexpected entries after round trip: %+v", entries)
	}
	if entries[0].Signature.Hex() != "ff00" {
		t.Fatalf("unexpected signature: %s", entries[0].Signature.Hex())
	}
}

func TestLoadStoreMissingFile(t *testing.T) {
	if _, err := LoadStore(filepath.Join(t.TempDir(), "absent.json")); !errors.Is(err, ErrSignatureData) {
		t.Fatalf("expected ErrSignatureData, got %v", err)
	}
}
