package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/query"
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

// Cursor iterates the rows of an executed query. Rows are converted to the
// Go types of their columns and materialized as records of the query's
// factory.
//
//	cur, err := conn.Query(ctx, query.Select(users))
//	defer cur.Close()
//	for cur.Next() {
//		fmt.Println(cur.Row())
//	}
//	return cur.Err()
type Cursor struct {
	pq     *query.PreparedQuery
	rows   *sql.Rows
	cancel context.CancelFunc
	record *schema.RecordType
	kinds  []types.Kind

	// scan buffers, reused across rows
	values []any
	ptrs   []any

	current   schema.Record
	rowCount  int64
	lastID    int64
	hasLastID bool
	err       error
	closed    bool
}

func newRowCursor(pq *query.PreparedQuery, rows *sql.Rows, cancel context.CancelFunc) (*Cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	if len(pq.Columns) > 0 && len(cols) != len(pq.Columns) {
		_ = rows.Close()
		return nil, fmt.Errorf("result has %d columns, query selected %d", len(cols), len(pq.Columns))
	}

	record := pq.Factory
	if record == nil {
		record = schema.NewRecordType("Row", cols...)
	}
	c := &Cursor{
		pq:     pq,
		rows:   rows,
		cancel: cancel,
		record: record,
		kinds:  make([]types.Kind, len(cols)),
		values: make([]any, len(cols)),
		ptrs:   make([]any, len(cols)),
	}
	for i := range cols {
		c.ptrs[i] = &c.values[i]
		if i < len(pq.Columns) {
			c.kinds[i] = columnKind(pq, pq.Columns[i])
		}
	}
	return c, nil
}

func newResultCursor(pq *query.PreparedQuery, res sql.Result) *Cursor {
	c := &Cursor{pq: pq, closed: true}
	if n, err := res.RowsAffected(); err == nil {
		c.rowCount = n
	}
	if id, err := res.LastInsertId(); err == nil {
		c.lastID, c.hasLastID = id, true
	}
	return c
}

// columnKind resolves the root kind used to convert a result column.
// Columns of joined tables resolve through their declared type; untyped
// columns pass driver values through unchanged.
func columnKind(pq *query.PreparedQuery, col *ast.Column) types.Kind {
	if pq.Table != nil {
		if ct, ok := pq.Table.ColumnType(col); ok {
			return ct.Root
		}
	}
	if col.DeclaredType() != nil {
		if ct, err := types.Parse(col.DeclaredType()); err == nil {
			return ct.Root
		}
	}
	return types.Invalid
}

// Next advances to the next row. It returns false when the rows are
// exhausted or an error occurred; check Err afterwards.
func (c *Cursor) Next() bool {
	if c.closed || c.rows == nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		_ = c.Close()
		return false
	}
	if err := c.rows.Scan(c.ptrs...); err != nil {
		c.err = err
		_ = c.Close()
		return false
	}
	values := make([]any, len(c.values))
	for i, v := range c.values {
		cv, err := schema.Convert(c.kinds[i], v)
		if err != nil {
			c.err = fmt.Errorf("column %d: %w", i, err)
			_ = c.Close()
			return false
		}
		values[i] = cv
	}
	rec, err := c.record.New(values...)
	if err != nil {
		c.err = err
		_ = c.Close()
		return false
	}
	c.current = rec
	c.rowCount++
	return true
}

// Row returns the row read by the last successful Next.
func (c *Cursor) Row() schema.Record {
	return c.current
}

// Rows reads all remaining rows and closes the cursor.
func (c *Cursor) Rows() ([]schema.Record, error) {
	var out []schema.Record
	for c.Next() {
		out = append(out, c.current)
	}
	return out, c.Err()
}

// Drain discards the remaining rows and closes the cursor.
func (c *Cursor) Drain() error {
	for c.Next() {
	}
	return c.Err()
}

func (c *Cursor) Err() error {
	return c.err
}

// RowCount is the number of rows read so far for a SELECT, or the number
// of rows affected by any other statement.
func (c *Cursor) RowCount() int64 {
	return c.rowCount
}

// LastID is the id of the last inserted row, when the driver reports one.
func (c *Cursor) LastID() (int64, bool) {
	return c.lastID, c.hasLastID
}

// Query is the prepared query the cursor was opened with.
func (c *Cursor) Query() *query.PreparedQuery {
	return c.pq
}

// Close releases the underlying rows. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var err error
	if c.rows != nil {
		err = c.rows.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
	return err
}
