package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"likeness/internal/logging"
)

// ErrResolution indicates an item's metadata could not be fetched or did not
// name an image. Per-item: the coordinator logs it and skips the item for
// the current run.
var ErrResolution = errors.New("metadata resolution failed")

const maxMetadataBytes = 4 << 20

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Resolver fetches token metadata documents and extracts the image URL.
// ipfs:// URIs are rewritten through the configured gateway, both for the
// metadata document itself and for the image URL it names, so every URL the
// resolver returns is directly fetchable.
type Resolver struct {
	client  HTTPDoer
	logger  *slog.Logger
	gateway string
}

// NewResolver constructs a Resolver using the given ipfs gateway prefix.
func NewResolver(client HTTPDoer, logger *slog.Logger, gateway string) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{
		client:  client,
		logger:  logging.NewComponentLogger(logger, "metadata"),
		gateway: gateway,
	}
}

type tokenMetadata struct {
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
}

// Resolve fetches the metadata document behind tokenURI and returns a
// fetchable URL for the item's image. Failures wrap ErrResolution.
func (r *Resolver) Resolve(ctx context.Context, tokenURI string) (string, error) {
	fetchURL, err := r.rewriteURI(tokenURI)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrResolution, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %q: %w", ErrResolution, fetchURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetch %q: unexpected status %s", ErrResolution, fetchURL, resp.Status)
	}

	var meta tokenMetadata
	body := io.LimitReader(resp.Body, maxMetadataBytes)
	if err := json.NewDecoder(body).Decode(&meta); err != nil {
		return "", fmt.Errorf("%w: decode metadata from %q: %w", ErrResolution, fetchURL, err)
	}

	image := strings.TrimSpace(meta.Image)
	if image == "" {
		image = strings.TrimSpace(meta.ImageURL)
	}
	if image == "" {
		return "", fmt.Errorf("%w: metadata at %q names no image", ErrResolution, fetchURL)
	}

	imageURL, err := r.rewriteURI(image)
	if err != nil {
		return "", err
	}
	r.logger.Debug("resolved image", logging.Args(logging.String("image_url", imageURL))...)
	return imageURL, nil
}

func (r *Resolver) rewriteURI(uri string) (string, error) {
	trimmed := strings.TrimSpace(uri)
	switch {
	case trimmed == "":
		return "", fmt.Errorf("%w: empty URI", ErrResolution)
	case strings.HasPrefix(trimmed, "ipfs://"):
		return r.gateway + strings.TrimPrefix(strings.TrimPrefix(trimmed, "ipfs://"), "ipfs/"), nil
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return trimmed, nil
	default:
		return "", fmt.Errorf("%w: unsupported URI scheme in %q", ErrResolution, trimmed)
	}
}
