package conn

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/logger"
)

// Adapter is the contract every connection adapter satisfies: a liveness
// check and an object existence check. Both take a context for timeouts and
// cancellation and surface connection errors instead of retrying.
type Adapter interface {
	// Ping reports whether the endpoint is reachable with the descriptor's
	// credentials. A false return with a nil error means the endpoint
	// answered but is not usable (for example a missing base directory).
	Ping(ctx context.Context) (bool, error)
	// Exists reports whether the named object (file, table, blob) exists
	// behind the connection.
	Exists(ctx context.Context, object string) (bool, error)
}

// Globber is implemented by adapters whose backing store supports pattern
// listing (local filesystem, SFTP).
type Globber interface {
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// Factory builds an adapter for a descriptor.
type Factory func(c Conn) (Adapter, error)

// Registry maps dialects to adapter factories.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.Get().With(zap.String("component", "conn_registry")),
	}
}

// Register registers a factory under one or more dialect names.
func (r *Registry) Register(factory Factory, dialects ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range dialects {
		if _, exists := r.factories[d]; exists {
			return flowerrors.Newf(flowerrors.ErrorTypeConfig,
				"connection dialect %q already registered", d)
		}
		r.factories[d] = factory
		r.logger.Debug("connection dialect registered", zap.String("dialect", d))
	}
	return nil
}

// Open builds an adapter for the descriptor's dialect. The returned adapter
// records check counts per dialect and operation.
func (r *Registry) Open(c Conn) (Adapter, error) {
	r.mu.RLock()
	factory, exists := r.factories[c.Dialect]
	r.mu.RUnlock()

	if !exists {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"no adapter registered for dialect %q", c.Dialect)
	}
	adapter, err := factory(c)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
			"cannot build adapter for dialect "+c.Dialect)
	}
	r.logger.Debug("adapter opened",
		zap.String("dialect", c.Dialect),
		zap.String("conn", c.Spec()))
	return &measuredAdapter{dialect: c.Dialect, next: adapter}, nil
}

// Has reports whether a dialect is registered.
func (r *Registry) Has(dialect string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[dialect]
	return exists
}

// Dialects lists registered dialects, sorted.
func (r *Registry) Dialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.factories))
	for d := range r.factories {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Register registers a factory in the global registry. Adapter files call
// this from init.
func Register(factory Factory, dialects ...string) error {
	return globalRegistry.Register(factory, dialects...)
}

// Open builds an adapter from the global registry.
func Open(c Conn) (Adapter, error) {
	return globalRegistry.Open(c)
}

// Has reports whether a dialect is registered in the global registry.
func Has(dialect string) bool {
	return globalRegistry.Has(dialect)
}

// Dialects lists dialects registered in the global registry.
func Dialects() []string {
	return globalRegistry.Dialects()
}
