package query

import (
	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/schema"
)

// NamedValue sets a column, looked up by name, in Update.
type NamedValue struct {
	Name  string
	Value any
}

// Set is shorthand for NamedValue{name, value}.
func Set(name string, value any) NamedValue {
	return NamedValue{Name: name, Value: value}
}

func Asc(c *ast.Column) ast.OrderBy  { return ast.OrderBy{Column: c, Direction: ast.Asc} }
func Desc(c *ast.Column) ast.OrderBy { return ast.OrderBy{Column: c, Direction: ast.Desc} }

// Row is shorthand for one insert row.
func Row(values ...any) []any { return values }

// Table shortcuts.

func Create(t *schema.Table, ifNotExists bool) *Query { return New(t).Create(ifNotExists) }
func Insert(t *schema.Table, columns ...*ast.Column) *Query {
	return New(t).Insert(columns...)
}
func Select(t *schema.Table, columns ...*ast.Column) *Query {
	return New(t).Select(columns...)
}
func Update(t *schema.Table, criteria ...any) *Query { return New(t).Update(criteria...) }
func Delete(t *schema.Table) *Query                  { return New(t).Delete() }
