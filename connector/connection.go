package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/aql/cache"
	"github.com/Konsultn-Engineering/aql/dialect"
	"github.com/Konsultn-Engineering/aql/engine"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/query"
)

// ErrTxInProgress is returned by Begin when a transaction is already open.
var ErrTxInProgress = fmt.Errorf("%w: transaction already in progress", errs.ErrConnector)

// Connection executes queries built with the query package against one
// database. Without autocommit, the first statement opens a transaction
// that stays open until Commit or Abort.
type Connection struct {
	name   string
	db     *sql.DB
	engine *engine.Engine
	cfg    Config
	stmts  *cache.StatementCache
	logger *slog.Logger
	stats  QueryStats

	mu         sync.Mutex
	tx         *sql.Tx
	autocommit bool
}

// NewConnection wraps an open database. name identifies the connection in
// logs; a nil logger means slog.Default().
func NewConnection(name string, db *sql.DB, e *engine.Engine, cfg Config, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Connection{
		name:       name,
		db:         db,
		engine:     e,
		cfg:        cfg,
		logger:     logger.With("engine", e.Name(), "connection", name),
		autocommit: cfg.Autocommit,
	}
	if cfg.StatementCache > 0 {
		stmts, err := cache.NewStatementCache(e.Name(), cfg.StatementCache)
		if err != nil {
			return nil, err
		}
		c.stmts = stmts
	}
	return c, nil
}

func (c *Connection) DB() *sql.DB { return c.db }
func (c *Connection) Engine() *engine.Engine { return c.engine }
func (c *Connection) Dialect() dialect.Dialect { return c.engine.Dialect() }
func (c *Connection) Stats() ConnectionStats { return newConnectionStats(c.db.Stats(), &c.stats) }
func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Connection) Autocommit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autocommit
}

// SetAutocommit changes the mode for statements run after the call. An
// open transaction is left as is.
func (c *Connection) SetAutocommit(on bool) {
	c.mu.Lock()
	c.autocommit = on
	c.mu.Unlock()
}

// InTransaction reports whether a transaction is open.
func (c *Connection) InTransaction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx != nil
}

// Begin opens a transaction explicitly.
func (c *Connection) Begin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return ErrTxInProgress
	}
	return c.begin(ctx)
}

func (c *Connection) begin(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction. It is a no-op without one.
func (c *Connection) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Abort rolls back the open transaction. It is a no-op without one.
func (c *Connection) Abort() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("abort: %w", err)
	}
	return nil
}

// Prepare renders q with the connection's engine.
func (c *Connection) Prepare(q *query.Query) (*query.PreparedQuery, error) {
	return c.engine.Prepare(q)
}

// Query renders and runs q. A SELECT returns a cursor over its rows; other
// actions return a cursor holding only the row count and last id.
func (c *Connection) Query(ctx context.Context, q *query.Query) (*Cursor, error) {
	pq, err := c.Prepare(q)
	if err != nil {
		return nil, err
	}
	return c.Run(ctx, pq)
}

// Result is the outcome of a statement that returns no rows.
type Result struct {
	RowCount  int64
	LastID    int64
	HasLastID bool
}

// Execute runs q and discards any rows.
func (c *Connection) Execute(ctx context.Context, q *query.Query) (Result, error) {
	cur, err := c.Query(ctx, q)
	if err != nil {
		return Result{}, err
	}
	defer cur.Close()
	if err := cur.Drain(); err != nil {
		return Result{}, err
	}
	id, ok := cur.LastID()
	return Result{RowCount: cur.RowCount(), LastID: id, HasLastID: ok}, nil
}

// Run executes an already prepared query.
func (c *Connection) Run(ctx context.Context, pq *query.PreparedQuery) (*Cursor, error) {
	tx, err := c.currentTx(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := ctx, context.CancelFunc(func() {})
	if c.cfg.QueryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.cfg.QueryTimeout)
	}

	id := ulid.Make().String()
	sqlText, args := pq.Unpack()
	start := time.Now()

	var cur *Cursor
	if pq.Action == query.ActionSelect {
		var rows *sql.Rows
		if rows, err = c.query(ctx, tx, sqlText, args); err == nil {
			cur, err = newRowCursor(pq, rows, cancel)
		}
	} else {
		var res sql.Result
		if res, err = c.exec(ctx, tx, sqlText, args); err == nil {
			cur = newResultCursor(pq, res)
		}
		cancel()
	}
	c.observe(ctx, id, pq, time.Since(start), err)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s %s: %w", pq.Action, pq.Table.Name(), err)
	}
	return cur, nil
}

// currentTx returns the open transaction, starting one when autocommit is
// off. A nil result means run on the pool.
func (c *Connection) currentTx(ctx context.Context) (*sql.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil && !c.autocommit {
		if err := c.begin(ctx); err != nil {
			return nil, err
		}
	}
	return c.tx, nil
}

// stmt leases the cached statement for sqlText, bound to tx when one is
// open. The caller releases the lease once the call using it returns; open
// rows keep the statement alive past that.
func (c *Connection) stmt(ctx context.Context, tx *sql.Tx, sqlText string) (*sql.Stmt, func(), error) {
	lease, err := c.stmts.GetOrPrepare(ctx, c.db, sqlText)
	if err != nil {
		return nil, nil, err
	}
	stmt := lease.Stmt
	if tx != nil {
		// closed by the transaction on commit or rollback
		stmt = tx.StmtContext(ctx, stmt)
	}
	return stmt, lease.Release, nil
}

func (c *Connection) exec(ctx context.Context, tx *sql.Tx, sqlText string, args []any) (sql.Result, error) {
	switch {
	case c.stmts != nil:
		stmt, release, err := c.stmt(ctx, tx, sqlText)
		if err != nil {
			return nil, err
		}
		defer release()
		return stmt.ExecContext(ctx, args...)
	case tx != nil:
		return tx.ExecContext(ctx, sqlText, args...)
	default:
		return c.db.ExecContext(ctx, sqlText, args...)
	}
}

func (c *Connection) query(ctx context.Context, tx *sql.Tx, sqlText string, args []any) (*sql.Rows, error) {
	switch {
	case c.stmts != nil:
		stmt, release, err := c.stmt(ctx, tx, sqlText)
		if err != nil {
			return nil, err
		}
		defer release()
		return stmt.QueryContext(ctx, args...)
	case tx != nil:
		return tx.QueryContext(ctx, sqlText, args...)
	default:
		return c.db.QueryContext(ctx, sqlText, args...)
	}
}

func (c *Connection) observe(ctx context.Context, id string, pq *query.PreparedQuery, d time.Duration, err error) {
	slow := c.cfg.SlowQuery > 0 && d > c.cfg.SlowQuery
	c.stats.record(pq.Action == query.ActionSelect, d, slow, err)

	attrs := []any{"id", id, "action", pq.Action.String(), "sql", pq.SQL, "params", len(pq.Parameters), "duration", d}
	if err != nil {
		c.logger.DebugContext(ctx, "query failed", append(attrs, "error", err)...)
		return
	}
	c.logger.DebugContext(ctx, "query", attrs...)
	if slow {
		c.logger.WarnContext(ctx, "slow query detected", "id", id, "duration", d, "sql", pq.SQL)
	}
}

// Close aborts any open transaction and closes the database.
func (c *Connection) Close() error {
	abortErr := c.Abort()
	if c.stmts != nil {
		_ = c.stmts.Close()
	}
	return errors.Join(abortErr, c.db.Close())
}
