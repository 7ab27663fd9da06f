package ast

// Operator is a comparison operator, stored as its SQL token.
type Operator string

const (
	OpEqual              Operator = "="
	OpNotEqual           Operator = "!="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
)

// Set and pattern matching
const (
	OpIn    Operator = "IN"
	OpLike  Operator = "LIKE"
	OpILike Operator = "ILIKE"
)

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual,
		OpLessThan, OpLessThanOrEqual, OpIn, OpLike, OpILike:
		return true
	}
	return false
}

// Logical operators joining grouped clauses.
const (
	OpAnd = "AND"
	OpOr  = "OR"
)
