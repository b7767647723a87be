package engine

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Registry maps connection strings to shared engines. Entries are created on
// first use and are never evicted; disposing an engine leaves its entry in
// place.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*Engine
	logger  *slog.Logger
}

var defaultRegistry = NewRegistry(nil)

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry.
// If logger is nil, a discard logger is used.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		engines: make(map[string]*Engine),
		logger:  logger,
	}
}

// Normalize returns the registry key for a connection string.
func Normalize(connStr string) string {
	return strings.TrimSpace(connStr)
}

// Get returns the engine for connStr, creating it on first use. Concurrent
// callers with the same connection string always receive the same engine.
func (r *Registry) Get(connStr string) *Engine {
	key := Normalize(connStr)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[key]; ok {
		return e
	}
	e := New(key, r.logger)
	r.engines[key] = e
	r.logger.Debug("created engine", slog.String("engine", e.ID()))
	return e
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// Reset disposes every engine and empties the registry.
func (r *Registry) Reset() error {
	r.mu.Lock()
	engines := r.engines
	r.engines = make(map[string]*Engine)
	r.mu.Unlock()

	var errs []error
	for _, e := range engines {
		if err := e.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
