package runner

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"likeness/internal/config"
	"likeness/internal/history"
	"likeness/internal/imagecache"
	"likeness/internal/liststore"
	"likeness/internal/logging"
	"likeness/internal/membership"
	"likeness/internal/metadata"
	"likeness/internal/registry"
	"likeness/internal/signature"
)

type metadataResolver interface {
	Resolve(ctx context.Context, tokenURI string) (string, error)
}

type signatureComputer interface {
	Compute(ctx context.Context, imageURL string) (signature.Signature, []byte, error)
}

type imageCache interface {
	Exists(id string) bool
	Save(id string, data []byte) error
}

type listStore interface {
	Fetch(ctx context.Context) *membership.Set
	Publish(ctx context.Context, set *membership.Set) error
}

// Coordinator sequences a full classification and reconciliation run.
type Coordinator struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *signature.Store
	enum     registry.Enumerator
	resolver metadataResolver
	computer signatureComputer
	cache    imageCache
	list     listStore
	history  *history.Store
}

// Option customises the Coordinator, primarily for tests.
type Option func(*Coordinator)

// WithEnumerator injects a custom collection enumerator.
func WithEnumerator(enum registry.Enumerator) Option {
	return func(c *Coordinator) {
		if enum != nil {
			c.enum = enum
		}
	}
}

// WithResolver injects a custom metadata resolver.
func WithResolver(resolver metadataResolver) Option {
	return func(c *Coordinator) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithComputer injects a custom signature computer.
func WithComputer(computer signatureComputer) Option {
	return func(c *Coordinator) {
		if computer != nil {
			c.computer = computer
		}
	}
}

// WithImageCache injects a custom image cache.
func WithImageCache(cache imageCache) Option {
	return func(c *Coordinator) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithListStore injects a custom membership list store.
func WithListStore(list listStore) Option {
	return func(c *Coordinator) {
		if list != nil {
			c.list = list
		}
	}
}

// WithHistory attaches a run history store.
func WithHistory(store *history.Store) Option {
	return func(c *Coordinator) {
		c.history = store
	}
}

// New constructs a Coordinator bound to the supplied configuration and
// reference store. Collaborators default to the real network-backed
// implementations.
func New(cfg *config.Config, logger *slog.Logger, store *signature.Store, opts ...Option) *Coordinator {
	runLogger := logging.NewComponentLogger(logger, "runner")

	c := &Coordinator{
		cfg:    cfg,
		logger: runLogger,
		store:  store,
		enum: registry.NewRPCEnumerator(
			cfg.Registry.RPCURL,
			cfg.Registry.ContractAddress,
			httpClient(cfg.Registry.RequestTimeout),
			logger,
		),
		resolver: metadata.NewResolver(httpClient(cfg.Metadata.RequestTimeout), logger, cfg.Metadata.IPFSGateway),
		computer: signature.NewComputer(
			httpClient(cfg.Metadata.RequestTimeout),
			logger,
			cfg.References.HashWidth,
			cfg.References.HashHeight,
		),
		cache: imagecache.New(cfg.Paths.ImageCacheDir, logger),
		list:  liststore.NewClient(cfg.List.Endpoint, cfg.List.AuthToken, httpClient(cfg.List.RequestTimeout), logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func httpClient(timeoutSeconds int) *http.Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}
