package signature

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"likeness/internal/logging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func gradientImage(t *testing.T, seed uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x*4) + seed, G: uint8(y * 4), B: seed, A: 255})
		}
	}
	return encodePNG(t, img)
}

func TestFromImageBytesDeterministic(t *testing.T) {
	computer := NewComputer(nil, logging.NewNop(), 16, 16)
	data := gradientImage(t, 0)

	first, err := computer.FromImageBytes(data)
	if err != nil {
		t.Fatalf("FromImageBytes returned error: %v", err)
	}
	second, err := computer.FromImageBytes(data)
	if err != nil {
		t.Fatalf("FromImageBytes returned error: %v", err)
	}
	if first.Len() != 256 {
		t.Fatalf("expected 256-bit signature, got %d", first.Len())
	}
	distance, err := first.Distance(second)
	if err != nil {
		t.Fatalf("Distance returned error: %v", err)
	}
	if distance != 0 {
		t.Fatalf("same image produced differing signatures: distance %d", distance)
	}
}

func TestFromImageBytesRejectsGarbage(t *testing.T) {
	computer := NewComputer(nil, logging.NewNop(), 16, 16)
	if _, err := computer.FromImageBytes([]byte("not an image")); !errors.Is(err, ErrHash) {
		t.Fatalf("expected ErrHash, got %v", err)
	}
}

func TestComputeFetchesAndReturnsBytes(t *testing.T) {
	payload := gradientImage(t, 0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	computer := NewComputer(server.Client(), logging.NewNop(), 16, 16)
	sig, data, err := computer.Compute(context.Background(), server.URL+"/item.png")
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if sig.IsZero() {
		t.Fatal("expected non-empty signature")
	}
	if !bytes.Equal(data, payload) {
		t.Fatal("expected original image bytes to be returned")
	}
}

func TestComputeWrapsFetchFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	computer := NewComputer(server.Client(), logging.NewNop(), 16, 16)
	if _, _, err := computer.Compute(context.Background(), server.URL); !errors.Is(err, ErrHash) {
		t.Fatalf("expected ErrHash, got %v", err)
	}
}
