// Package query holds the Query builder: a per-action state machine that
// accumulates one statement against a table, and the PreparedQuery a
// renderer produces from it.
//
// Builder methods chain. The first illegal call records an error on the
// query and every later call becomes a no-op; Err reports the recorded
// error and rendering returns it.
package query

import (
	"fmt"
	"slices"

	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/schema"
)

type Action int

const (
	ActionUnset Action = iota
	ActionCreate
	ActionInsert
	ActionSelect
	ActionUpdate
	ActionDelete
)

var actionNames = [...]string{"unset", "create", "insert", "select", "update", "delete"}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Selector is the row selection mode of a SELECT.
type Selector int

const (
	SelectAll Selector = iota
	SelectDistinct
)

func (s Selector) String() string {
	if s == SelectDistinct {
		return "DISTINCT"
	}
	return "ALL"
}

// Assignment is one column = value pair of an UPDATE.
type Assignment struct {
	Column *ast.Column
	Value  any
}

// Query accumulates a single statement against a table. It is not safe for
// concurrent use and is meant to be rendered once.
type Query struct {
	table *schema.Table
	err   error

	action      Action
	ifNotExists bool
	selector    Selector
	columns     []*ast.Column
	rows        [][]any
	updates     []Assignment
	joins       []*ast.Join
	where       []ast.Clause
	groupBy     []*ast.Column
	having      []ast.Clause
	orderBy     []ast.OrderBy
	limit       *int
	offset      *int
	everything  bool
}

// New returns an unstarted query bound to table.
func New(table *schema.Table) *Query {
	return &Query{table: table}
}

// AddError records err unless an earlier error is already recorded.
func (q *Query) AddError(err error) {
	if err != nil && q.err == nil {
		q.err = err
	}
}

// Err returns the first builder error, if any.
func (q *Query) Err() error { return q.err }

// start moves an unset query into action a.
func (q *Query) start(op string, a Action) bool {
	if q.err != nil {
		return false
	}
	if q.action != ActionUnset {
		q.AddError(&errs.BuildError{
			Op:     op,
			Msg:    "query already started with " + q.action.String(),
			Reason: errs.ErrAlreadyStarted,
		})
		return false
	}
	q.action = a
	return true
}

// only checks the query was started with one of actions. No actions means
// any started action is accepted.
func (q *Query) only(op string, actions ...Action) bool {
	if q.err != nil {
		return false
	}
	if q.action == ActionUnset {
		q.AddError(&errs.BuildError{Op: op, Msg: "query not yet started", Reason: errs.ErrNotStarted})
		return false
	}
	if len(actions) > 0 && !slices.Contains(actions, q.action) {
		q.AddError(errs.NewBuildError(op, "query %s not supported with this method", q.action))
		return false
	}
	return true
}

func (q *Query) fail(op, format string, args ...any) *Query {
	q.AddError(errs.NewBuildError(op, format, args...))
	return q
}

// Accessors used by renderers.

func (q *Query) Table() *schema.Table       { return q.table }
func (q *Query) Action() Action             { return q.action }
func (q *Query) IfNotExists() bool          { return q.ifNotExists }
func (q *Query) Selector() Selector         { return q.selector }
func (q *Query) Columns() []*ast.Column     { return q.columns }
func (q *Query) Rows() [][]any              { return q.rows }
func (q *Query) Updates() []Assignment      { return q.updates }
func (q *Query) Joins() []*ast.Join         { return q.joins }
func (q *Query) WhereClauses() []ast.Clause { return q.where }
func (q *Query) GroupByColumns() []*ast.Column {
	return q.groupBy
}
func (q *Query) HavingClauses() []ast.Clause { return q.having }
func (q *Query) Order() []ast.OrderBy        { return q.orderBy }
func (q *Query) IsEverything() bool          { return q.everything }

// LimitValue returns the row limit and whether one was set.
func (q *Query) LimitValue() (int, bool) {
	if q.limit == nil {
		return 0, false
	}
	return *q.limit, true
}

// OffsetValue returns the row offset and whether one was set.
func (q *Query) OffsetValue() (int, bool) {
	if q.offset == nil {
		return 0, false
	}
	return *q.offset, true
}
