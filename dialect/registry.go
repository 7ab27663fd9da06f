package dialect

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/aql/errs"
)

// Registry maps lowercase engine names to dialects. Nothing registers
// itself: callers populate a registry explicitly, usually through
// RegisterBuiltins at startup.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]Dialect
	logger   *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger means slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{dialects: make(map[string]Dialect), logger: logger}
}

// Register adds d under name. A name that is already taken keeps its
// earlier dialect; the duplicate is logged and Register returns false.
func (r *Registry) Register(name string, d Dialect) bool {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.dialects[key]; dup {
		r.logger.Warn("duplicate engine name", "name", key, "dialect", d.Name())
		return false
	}
	r.dialects[key] = d
	return true
}

// Get looks up a dialect by case-insensitive name.
func (r *Registry) Get(name string) (Dialect, error) {
	r.mu.RLock()
	d, ok := r.dialects[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &errs.UnknownEngineError{Name: name, Known: r.Names()}
	}
	return d, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.dialects))
	for n := range r.dialects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltins registers the sql, sqlite, mysql and postgres dialects.
func RegisterBuiltins(r *Registry) {
	for _, d := range []Dialect{NewSQLDialect(), NewSQLiteDialect(), NewMySQLDialect(), NewPostgresDialect()} {
		r.Register(d.Name(), d)
	}
}
