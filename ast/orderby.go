package ast

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Column    *Column
	Direction Direction
}

func (o OrderBy) Type() NodeType         { return NodeOrderBy }
func (o OrderBy) Accept(v Visitor) error { return v.VisitOrderBy(o) }
