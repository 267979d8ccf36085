package membership

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecordIsIdempotent(t *testing.T) {
	set := NewSet()
	set.Record("9")
	set.Record("9")
	if set.Len() != 1 {
		t.Fatalf("expected size 1 after duplicate records, got %d", set.Len())
	}
	if !set.Contains("9") {
		t.Fatal("expected set to contain recorded id")
	}
}

func TestIDsSortedLexically(t *testing.T) {
	set := FromIDs("12", "2", "105")
	got := set.IDs()
	// Lexical, not numeric: "105" < "12" < "2".
	want := []string{"105", "12", "2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	set := FromIDs("5", "12")
	var buf bytes.Buffer
	if err := set.EncodeDocument(&buf); err != nil {
		t.Fatalf("EncodeDocument returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"5":true`) {
		t.Fatalf("unexpected document: %q", buf.String())
	}

	decoded, err := DecodeDocument(&buf)
	if err != nil {
		t.Fatalf("DecodeDocument returned error: %v", err)
	}
	if Reconcile(set, decoded).Changed {
		t.Fatal("round-tripped set should be identical")
	}
}

func TestDecodeDocumentIgnoresFalseEntries(t *testing.T) {
	set, err := DecodeDocument(strings.NewReader(`{"5": true, "7": false}`))
	if err != nil {
		t.Fatalf("DecodeDocument returned error: %v", err)
	}
	if set.Len() != 1 || !set.Contains("5") {
		t.Fatalf("unexpected set: %v", set.IDs())
	}
}

func TestDecodeDocumentRejectsMalformed(t *testing.T) {
	if _, err := DecodeDocument(strings.NewReader(`["5"]`)); err == nil {
		t.Fatal("expected error for non-object document")
	}
}
