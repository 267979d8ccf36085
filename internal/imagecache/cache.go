package imagecache

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"likeness/internal/logging"
)

// Cache stores item images under a directory, one file per item id. If the
// directory is empty the cache is non-functional and all operations become
// no-ops.
type Cache struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a cache rooted at dir.
func New(dir string, logger *slog.Logger) *Cache {
	return &Cache{
		dir:    strings.TrimSpace(dir),
		logger: logging.NewComponentLogger(logger, "imagecache"),
	}
}

// Enabled reports whether the cache has a backing directory.
func (c *Cache) Enabled() bool {
	return c.dir != ""
}

// Exists reports whether an image for id is already cached, regardless of
// format.
func (c *Cache) Exists(id string) bool {
	if !c.Enabled() || id == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	matches, err := filepath.Glob(filepath.Join(c.dir, sanitize(id)+".*"))
	if err != nil {
		return false
	}
	return len(matches) > 0
}

// Save writes the image bytes for id, choosing a file extension from the
// sniffed content type. Saving over an existing entry replaces it.
func (c *Cache) Save(id string, data []byte) error {
	if !c.Enabled() {
		return nil
	}
	if id == "" {
		return fmt.Errorf("image cache: empty item id")
	}
	if len(data) == 0 {
		return fmt.Errorf("image cache: empty image for item %s", id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("image cache: create directory: %w", err)
	}

	path := filepath.Join(c.dir, sanitize(id)+extensionFor(data))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("image cache: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("image cache: finalize %s: %w", path, err)
	}
	c.logger.Debug("cached image",
		logging.Args(logging.String(logging.FieldItemID, id), logging.Int("bytes", len(data)))...)
	return nil
}

func extensionFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}

// sanitize keeps cache file names flat even if an id ever contains path
// separators.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ':', '*', '?', '[':
			return '_'
		default:
			return r
		}
	}, id)
}
