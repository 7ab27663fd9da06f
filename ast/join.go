package ast

import (
	"fmt"

	"github.com/Konsultn-Engineering/aql/errs"
)

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
)

func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "INNER"
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("JoinType(%d)", int(t))
	}
}

// TableRef is anything that names a table. *schema.Table satisfies it.
type TableRef interface {
	Name() string
}

// Join is a join descriptor. At most one of On and Using is ever populated.
type Join struct {
	Table TableRef
	Style JoinType

	on    []Clause
	using []*Column
}

func NewJoin(table TableRef, style JoinType) *Join {
	return &Join{Table: table, Style: style}
}

func (j *Join) Type() NodeType         { return NodeJoin }
func (j *Join) Accept(v Visitor) error { return v.VisitJoin(j) }

// On appends predicates. It fails when the join already uses USING.
func (j *Join) On(clauses ...Clause) error {
	if len(j.using) > 0 {
		return &errs.BuildError{Op: "on", Msg: "join " + j.Table.Name() + " already has using", Reason: errs.ErrJoinConflict}
	}
	j.on = append(j.on, clauses...)
	return nil
}

// Using sets the column-equality join. It fails when the join already has ON predicates.
func (j *Join) Using(columns ...*Column) error {
	if len(j.on) > 0 {
		return &errs.BuildError{Op: "using", Msg: "join " + j.Table.Name() + " already has on", Reason: errs.ErrJoinConflict}
	}
	j.using = append(j.using, columns...)
	return nil
}

func (j *Join) Conditions() []Clause { return j.on }
func (j *Join) UsingColumns() []*Column { return j.using }
