// Package engine pairs a dialect with the SQL renderer and turns finished
// queries into PreparedQuery values.
package engine

import (
	"github.com/Konsultn-Engineering/aql/dialect"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/query"
	"github.com/Konsultn-Engineering/aql/visitor"
)

type renderFunc func(*visitor.SQLVisitor, *query.Query) error

// Engine renders queries for one dialect. It holds no per-query state and
// is safe for concurrent use.
type Engine struct {
	dialect dialect.Dialect
	actions map[query.Action]renderFunc
}

func New(d dialect.Dialect) *Engine {
	return &Engine{
		dialect: d,
		actions: map[query.Action]renderFunc{
			query.ActionCreate: (*visitor.SQLVisitor).VisitCreate,
			query.ActionInsert: (*visitor.SQLVisitor).VisitInsert,
			query.ActionSelect: (*visitor.SQLVisitor).VisitSelect,
			query.ActionUpdate: (*visitor.SQLVisitor).VisitUpdate,
			query.ActionDelete: (*visitor.SQLVisitor).VisitDelete,
		},
	}
}

// FromRegistry builds an engine for the dialect registered under name.
func FromRegistry(r *dialect.Registry, name string) (*Engine, error) {
	d, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return New(d), nil
}

func (e *Engine) Name() string              { return e.dialect.Name() }
func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

// Prepare renders q with the method matching its action.
func (e *Engine) Prepare(q *query.Query) (*query.PreparedQuery, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	if q.Action() == query.ActionUnset {
		return nil, &errs.BuildError{Op: "prepare", Msg: "query not yet started", Reason: errs.ErrNotStarted}
	}
	if q.Action() == query.ActionSelect {
		if _, err := q.Factory(); err != nil {
			return nil, err
		}
	}
	render, ok := e.actions[q.Action()]
	if !ok {
		return nil, &errs.UnsupportedError{Kind: e.dialect.Name() + " action", Value: q.Action()}
	}

	v := visitor.NewSQLVisitor(e.dialect)
	defer v.Release()
	if err := render(v, q); err != nil {
		return nil, err
	}
	sql, args := v.Result()
	return query.Prepared(q, sql, args), nil
}
