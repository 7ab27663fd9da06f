// Package visitor renders queries to SQL. SQLVisitor walks a query.Query
// and its clause trees, writing SQL text through a dialect and collecting
// parameters in placeholder order.
package visitor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/dialect"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/query"
)

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			args: make([]any, 0, 8),
		}
	},
}

type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	dialect dialect.Dialect
}

var _ ast.Visitor = (*SQLVisitor)(nil)

// NewSQLVisitor takes a visitor from the pool. Call Release when done.
func NewSQLVisitor(d dialect.Dialect) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.Reset()
	return v
}

func (v *SQLVisitor) Release() {
	v.dialect = nil
	v.Reset()
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.args = v.args[:0]
}

// Result returns the rendered SQL and a copy of the parameters, safe to
// keep after Release.
func (v *SQLVisitor) Result() (string, []any) {
	args := make([]any, len(v.args))
	copy(args, v.args)
	return v.sb.String(), args
}

// bind writes the next placeholder and records its parameter.
func (v *SQLVisitor) bind(a any) {
	v.args = append(v.args, a)
	v.sb.WriteString(v.dialect.Placeholder(len(v.args)))
}

func (v *SQLVisitor) quote(name string) {
	v.sb.WriteString(v.dialect.QuoteIdentifier(name))
}

// =========================================================================
// Clause algebra
// =========================================================================

// VisitColumn writes "table"."column" for owned columns, else "column".
func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	if c.TableName() != "" {
		v.quote(c.TableName())
		v.sb.WriteByte('.')
	}
	v.quote(c.Name())
	return nil
}

func (v *SQLVisitor) VisitComparison(c ast.Comparison) error {
	if c.Column == nil {
		return &errs.UnsupportedError{Kind: "comparison", Value: "missing column"}
	}
	if !c.Operator.Valid() {
		return &errs.UnsupportedError{Kind: "operator", Value: c.Operator}
	}
	if err := v.VisitColumn(c.Column); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(string(c.Operator))
	v.sb.WriteByte(' ')

	if c.Operator == ast.OpIn {
		values, err := sequence(c.Value)
		if err != nil {
			return err
		}
		v.sb.WriteByte('(')
		for i, val := range values {
			if i > 0 {
				v.sb.WriteByte(',')
			}
			v.bind(val)
		}
		v.sb.WriteByte(')')
		return nil
	}

	if right, ok := c.RightColumn(); ok {
		return v.VisitColumn(right)
	}
	v.bind(c.Value)
	return nil
}

// sequence flattens the right-hand side of IN into its elements.
func sequence(value any) ([]any, error) {
	if vs, ok := value.([]any); ok {
		if len(vs) == 0 {
			return nil, &errs.UnsupportedError{Kind: "empty IN list", Value: value}
		}
		return vs, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &errs.UnsupportedError{Kind: "IN value", Value: value}
	}
	if rv.Len() == 0 {
		return nil, &errs.UnsupportedError{Kind: "empty IN list", Value: value}
	}
	vs := make([]any, rv.Len())
	for i := range vs {
		vs[i] = rv.Index(i).Interface()
	}
	return vs, nil
}

func (v *SQLVisitor) VisitAnd(a ast.And) error {
	return v.group(ast.OpAnd, a)
}

func (v *SQLVisitor) VisitOr(o ast.Or) error {
	return v.group(ast.OpOr, o)
}

func (v *SQLVisitor) group(op string, clauses []ast.Clause) error {
	if len(clauses) == 0 {
		return &errs.UnsupportedError{Kind: "empty " + op + " group", Value: clauses}
	}
	v.sb.WriteByte('(')
	if err := v.joinClauses(" "+op+" ", clauses); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) joinClauses(sep string, clauses []ast.Clause) error {
	for i, c := range clauses {
		if i > 0 {
			v.sb.WriteString(sep)
		}
		if err := v.VisitClause(c); err != nil {
			return err
		}
	}
	return nil
}

// VisitClause renders a Comparison, And or Or. Other clause kinds are
// rejected.
func (v *SQLVisitor) VisitClause(c ast.Clause) error {
	switch n := c.(type) {
	case ast.Comparison, ast.And, ast.Or:
		return n.Accept(v)
	case *ast.Comparison:
		if n != nil {
			return v.VisitComparison(*n)
		}
	}
	return &errs.UnsupportedError{Kind: "clause", Value: fmt.Sprintf("%T", c)}
}

func (v *SQLVisitor) VisitJoin(j *ast.Join) error {
	switch j.Style {
	case ast.JoinInner, ast.JoinLeft, ast.JoinRight:
	default:
		return &errs.UnsupportedError{Kind: "join style", Value: j.Style}
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(j.Style.String())
	v.sb.WriteString(" JOIN ")
	v.quote(j.Table.Name())

	if on := j.Conditions(); len(on) > 0 {
		v.sb.WriteString(" ON ")
		return v.joinClauses(" AND ", on)
	}
	if using := j.UsingColumns(); len(using) > 0 {
		v.sb.WriteString(" USING (")
		for i, c := range using {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			v.quote(c.Name())
		}
		v.sb.WriteByte(')')
	}
	return nil
}

func (v *SQLVisitor) VisitOrderBy(o ast.OrderBy) error {
	if err := v.VisitColumn(o.Column); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(o.Direction.String())
	return nil
}

// =========================================================================
// Shared statement tails
// =========================================================================

func (v *SQLVisitor) columnList(cols []*ast.Column, qualified bool) {
	for i, c := range cols {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if qualified {
			_ = v.VisitColumn(c)
		} else {
			v.quote(c.Name())
		}
	}
}

func (v *SQLVisitor) where(q *query.Query) error {
	if where := q.WhereClauses(); len(where) > 0 {
		v.sb.WriteString(" WHERE ")
		return v.joinClauses(" AND ", where)
	}
	return nil
}

func (v *SQLVisitor) limit(q *query.Query) {
	n, hasLimit := q.LimitValue()
	off, hasOffset := q.OffsetValue()
	if hasLimit {
		v.sb.WriteString(" LIMIT ")
		v.bind(n)
	} else if hasOffset && v.dialect.NoLimit() != "" {
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(v.dialect.NoLimit())
	}
	if hasOffset {
		v.sb.WriteString(" OFFSET ")
		v.bind(off)
	}
}

// bounded writes the WHERE and LIMIT tail of an UPDATE or DELETE. Engines
// that reject LIMIT there get the bound through a row id subquery.
func (v *SQLVisitor) bounded(q *query.Query) error {
	_, hasLimit := q.LimitValue()
	off, hasOffset := q.OffsetValue()
	if !hasLimit && !hasOffset {
		return v.where(q)
	}
	rowid := v.dialect.RowIdentifier()
	if rowid == "" {
		if hasOffset {
			return &errs.UnsupportedError{Kind: "offset on " + q.Action().String(), Value: off}
		}
		if err := v.where(q); err != nil {
			return err
		}
		v.limit(q)
		return nil
	}
	v.sb.WriteString(" WHERE ")
	v.sb.WriteString(rowid)
	v.sb.WriteString(" IN (SELECT ")
	v.sb.WriteString(rowid)
	v.sb.WriteString(" FROM ")
	v.quote(q.Table().Name())
	if err := v.where(q); err != nil {
		return err
	}
	v.limit(q)
	v.sb.WriteByte(')')
	return nil
}

// guard enforces that an UPDATE or DELETE is bounded by a where clause or a
// limit, or was explicitly marked with Everything.
func guard(q *query.Query) error {
	_, hasLimit := q.LimitValue()
	if len(q.WhereClauses()) > 0 || hasLimit || q.IsEverything() {
		return nil
	}
	return &errs.UnsafeQueryError{Action: q.Action().String(), Table: q.Table().Name()}
}
