package ast

type Visitor interface {
	VisitColumn(*Column) error
	VisitComparison(Comparison) error
	VisitAnd(And) error
	VisitOr(Or) error
	VisitJoin(*Join) error
	VisitOrderBy(OrderBy) error
}
