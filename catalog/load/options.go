package load

import (
	"database/sql"
	"log/slog"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/location"
)

// Option configures the behavior of LoadFile and LoadBytes.
type Option func(*config)

// sourceStore is the mutable surface catalog/load needs from a source
// registry: catalog.SourceRegistry for reads, plus Put for recording the
// document it just parsed. *catalog.memorySourceRegistry satisfies this
// without exporting its concrete type.
type sourceStore interface {
	catalog.SourceRegistry
	Put(id location.SourceID, content []byte)
}

// config holds configuration for a load operation.
type config struct {
	registry       *catalog.Registry
	sourceRegistry sourceStore
	issueLimit     int
	logger         *slog.Logger
	discoveryPool  *sql.DB
}

// defaultConfig returns a config with sensible defaults: a fresh in-memory
// source registry, a 100-issue diagnostic cap, and no hot-reload publishing
// or ClickHouse discovery.
func defaultConfig() *config {
	return &config{
		sourceRegistry: catalog.NewMemorySourceRegistry(),
		issueLimit:     100,
	}
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}

// WithRegistry publishes a successfully loaded schema to r, bumping its
// generation. Without this option LoadFile/LoadBytes still return the
// schema; they just don't make it the active schema for any query path.
func WithRegistry(r *catalog.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithIssueLimit sets the maximum number of diagnostic issues collected.
// Loading continues past the limit but additional issues are dropped.
// Default is 100; pass diag.NoLimit for unlimited.
func WithIssueLimit(limit int) Option {
	return func(c *config) {
		c.issueLimit = limit
	}
}

// WithSourceRegistry provides the registry the loaded document's raw bytes
// are recorded into, for diagnostic rendering. If not provided, a fresh
// in-memory registry is created per call.
func WithSourceRegistry(store sourceStore) Option {
	return func(c *config) {
		c.sourceRegistry = store
	}
}

// WithDiscoveryPool enables the asynchronous discovery path: nodes and
// relationships marked auto_discover_columns have their column lists and
// table engines resolved against pool's system tables before completion
// runs. Without this option, auto_discover_columns entries are completed
// using only their declared property_mappings.
func WithDiscoveryPool(pool *sql.DB) Option {
	return func(c *config) {
		c.discoveryPool = pool
	}
}

// WithLogger provides a structured logger for load diagnostics. If not
// provided, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
