// Package connector runs rendered queries against real databases. A
// Manager maps engine names to providers, Connect opens a Connection from a
// Config or location URI, and Connection executes queries, returning
// Cursors whose rows materialize as schema records.
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/aql/engine"
	"github.com/Konsultn-Engineering/aql/errs"
)

// Manager maps engine names to providers. Providers are registered
// explicitly, usually once at startup.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{providers: make(map[string]Provider), logger: logger}
}

// Register adds p under name, case-insensitively. A name already taken
// keeps its provider; the duplicate is logged and Register returns false.
func (m *Manager) Register(name string, p Provider) bool {
	key := strings.ToLower(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.providers[key]; dup {
		m.logger.Warn("duplicate engine name", "name", key, "provider", fmt.Sprintf("%T", p))
		return false
	}
	m.providers[key] = p
	return true
}

func (m *Manager) Provider(name string) (Provider, error) {
	m.mu.RLock()
	p, ok := m.providers[strings.ToLower(name)]
	m.mu.RUnlock()
	if !ok {
		return nil, &errs.UnknownEngineError{Name: name, Known: m.Names()}
	}
	return p, nil
}

// Names returns the registered engine names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for n := range m.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open connects to a location URI with default settings.
func (m *Manager) Open(ctx context.Context, uri string) (*Connection, error) {
	return m.Connect(ctx, Config{Location: uri})
}

// Connect resolves cfg, opens the database through its engine's provider
// and verifies it with a ping, retrying as configured.
func (m *Manager) Connect(ctx context.Context, cfg Config) (*Connection, error) {
	loc, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	p, err := m.Provider(loc.Engine)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var db *sql.DB
	attempt := 0
	err = retry(ctx, cfg.Retry, func(ctx context.Context) error {
		attempt++
		opened, err := p.Open(ctx, loc)
		if err != nil {
			m.logger.Debug("connect failed", "location", loc.String(), "attempt", attempt, "error", err)
			return err
		}
		if err := opened.PingContext(ctx); err != nil {
			_ = opened.Close()
			m.logger.Debug("connect failed", "location", loc.String(), "attempt", attempt, "error", err)
			return err
		}
		db = opened
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", loc, err)
	}
	applyPool(db, cfg.Pool)

	conn, err := NewConnection(loc.String(), db, engine.New(p.Dialect()), cfg, m.logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m.logger.Debug("connected", "location", loc.String(), "attempts", attempt)
	return conn, nil
}

// applyPool sets the non-zero pool settings; zero keeps the database/sql
// or provider default.
func applyPool(db *sql.DB, p PoolConfig) {
	if p.MaxOpen > 0 {
		db.SetMaxOpenConns(p.MaxOpen)
	}
	if p.MaxIdle > 0 {
		db.SetMaxIdleConns(p.MaxIdle)
	}
	if p.MaxLifetime > 0 {
		db.SetConnMaxLifetime(p.MaxLifetime)
	}
	if p.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(p.MaxIdleTime)
	}
}
