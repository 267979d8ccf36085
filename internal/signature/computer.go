package signature

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"

	"github.com/corona10/goimagehash"

	"likeness/internal/logging"
)

// ErrHash indicates an image could not be fetched or hashed. Per-item: the
// coordinator logs it and skips the item for the current run.
var ErrHash = errors.New("signature computation failed")

// maxImageBytes bounds how much image data a single item may pull in.
const maxImageBytes = 32 << 20

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Computer fetches item images and derives perceptual signatures from them
// using an extended perception hash.
type Computer struct {
	client HTTPDoer
	logger *slog.Logger
	width  int
	height int
}

// NewComputer constructs a Computer producing width*height-bit signatures.
func NewComputer(client HTTPDoer, logger *slog.Logger, width, height int) *Computer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Computer{
		client: client,
		logger: logging.NewComponentLogger(logger, "signature"),
		width:  width,
		height: height,
	}
}

// Compute fetches the image at imageURL and returns its perceptual signature
// along with the raw image bytes so callers can cache them. Failures wrap
// ErrHash.
func (c *Computer) Compute(ctx context.Context, imageURL string) (Signature, []byte, error) {
	data, err := c.fetch(ctx, imageURL)
	if err != nil {
		return Signature{}, nil, fmt.Errorf("%w: fetch %q: %w", ErrHash, imageURL, err)
	}

	sig, err := c.FromImageBytes(data)
	if err != nil {
		return Signature{}, nil, err
	}
	return sig, data, nil
}

// FromImageBytes decodes image data and derives its perceptual signature.
func (c *Computer) FromImageBytes(data []byte) (Signature, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Signature{}, fmt.Errorf("%w: decode image: %w", ErrHash, err)
	}

	hash, err := goimagehash.ExtPerceptionHash(img, c.width, c.height)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: perception hash: %w", ErrHash, err)
	}

	sig := packHash(hash)
	c.logger.Debug("computed signature",
		logging.Args(
			logging.String("format", format),
			logging.Int("bits", sig.Len()),
		)...)
	return sig, nil
}

func (c *Computer) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image body")
	}
	return data, nil
}

// packHash converts the hash's word representation into packed bytes,
// truncated to the hash's bit length.
func packHash(hash *goimagehash.ExtImageHash) Signature {
	words := hash.GetHash()
	packed := make([]byte, len(words)*8)
	for i, word := range words {
		binary.BigEndian.PutUint64(packed[i*8:], word)
	}
	if byteLen := hash.Bits() / 8; byteLen > 0 && byteLen < len(packed) {
		packed = packed[:byteLen]
	}
	return Signature{data: packed}
}
