package ast

// Comparison is a (column, operator, value) triple. Value is a literal, a
// []any for OpIn, or a *Column for column-to-column comparisons.
type Comparison struct {
	Column   *Column
	Operator Operator
	Value    any
}

func (c Comparison) Type() NodeType         { return NodeComparison }
func (c Comparison) Accept(v Visitor) error { return v.VisitComparison(c) }

// RightColumn returns the right-hand column of a column-to-column comparison.
func (c Comparison) RightColumn() (*Column, bool) {
	col, ok := c.Value.(*Column)
	return col, ok && col != nil
}

// And groups clauses joined by AND. Nested groups are kept as written.
type And []Clause

func (a And) Type() NodeType         { return NodeAnd }
func (a And) Accept(v Visitor) error { return v.VisitAnd(a) }

// Or groups clauses joined by OR.
type Or []Clause

func (o Or) Type() NodeType         { return NodeOr }
func (o Or) Accept(v Visitor) error { return v.VisitOr(o) }

// Grouping selects how clauses passed together to Where or Having are combined.
type Grouping int

const (
	GroupAnd Grouping = iota
	GroupOr
)

// Group wraps clauses into a single And or Or node.
func (g Grouping) Group(clauses ...Clause) Clause {
	cs := make([]Clause, len(clauses))
	copy(cs, clauses)
	if g == GroupOr {
		return Or(cs)
	}
	return And(cs)
}
