// Package cache keeps prepared statements for reuse across executions of
// the same rendered SQL.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Preparer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type entry struct {
	query   string
	stmt    *sql.Stmt
	refs    int
	evicted bool
}

// Lease is a statement checked out of the cache. The statement stays open
// until Release, even when the cache evicts it in the meantime.
type Lease struct {
	Stmt    *sql.Stmt
	release func()
	once    sync.Once
}

// Release returns the statement to the cache. Calling it more than once is
// harmless.
func (l *Lease) Release() {
	l.once.Do(l.release)
}

// StatementCache is an LRU of prepared statements for one engine. Evicted
// statements are closed once no lease holds them. It is safe for
// concurrent use.
type StatementCache struct {
	engine string
	mu     sync.Mutex // guards entry refs and evicted
	cache  *lru.Cache[uint64, *entry]
	group  singleflight.Group
}

func NewStatementCache(engine string, size int) (*StatementCache, error) {
	if size <= 0 {
		return nil, errors.New("cache: size must be positive")
	}
	s := &StatementCache{engine: engine}
	cache, err := lru.NewWithEvict(size, func(_ uint64, e *entry) {
		s.retire(e)
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// Get leases the cached statement for query, if any.
func (s *StatementCache) Get(query string) (*Lease, bool) {
	e, ok := s.cache.Get(Key(s.engine, query))
	if !ok || e.query != query || !s.acquire(e) {
		return nil, false
	}
	return s.lease(e), true
}

// GetOrPrepare leases the cached statement for query or prepares it with p.
// Concurrent callers asking for the same query share one prepare.
func (s *StatementCache) GetOrPrepare(ctx context.Context, p Preparer, query string) (*Lease, error) {
	if l, ok := s.Get(query); ok {
		return l, nil
	}
	key := Key(s.engine, query)
	v, err, _ := s.group.Do(query, func() (any, error) {
		if e, ok := s.cache.Peek(key); ok && e.query == query {
			return e, nil
		}
		stmt, err := p.PrepareContext(ctx, query)
		if err != nil {
			return nil, err
		}
		// Add does not run the evict callback for a replaced value, so a
		// colliding fingerprint retires the older entry here.
		if old, ok := s.cache.Peek(key); ok {
			s.retire(old)
		}
		e := &entry{query: query, stmt: stmt}
		s.cache.Add(key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	e := v.(*entry)
	if s.acquire(e) {
		return s.lease(e), nil
	}
	// Evicted before this caller got hold of it: use a private statement.
	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Lease{Stmt: stmt, release: func() { _ = stmt.Close() }}, nil
}

func (s *StatementCache) lease(e *entry) *Lease {
	return &Lease{Stmt: e.stmt, release: func() { s.put(e) }}
}

func (s *StatementCache) acquire(e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.evicted {
		return false
	}
	e.refs++
	return true
}

func (s *StatementCache) put(e *entry) {
	s.mu.Lock()
	e.refs--
	closing := e.evicted && e.refs == 0
	s.mu.Unlock()
	if closing {
		_ = e.stmt.Close()
	}
}

// retire marks e as evicted and closes its statement when it is idle.
func (s *StatementCache) retire(e *entry) {
	s.mu.Lock()
	idle := !e.evicted && e.refs == 0
	e.evicted = true
	s.mu.Unlock()
	if idle {
		_ = e.stmt.Close()
	}
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close drops every cached statement. Statements still leased close on
// their last Release.
func (s *StatementCache) Close() error {
	s.cache.Purge()
	return nil
}
