package ast

type NodeType int

const (
	NodeColumn NodeType = iota
	NodeComparison
	NodeAnd
	NodeOr
	NodeJoin
	NodeOrderBy
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
}

// Clause is a node of a predicate tree. The renderer understands
// Comparison, And and Or; any other implementation is rejected at render time.
type Clause interface {
	Node
}
