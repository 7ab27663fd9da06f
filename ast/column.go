package ast

import (
	"fmt"
	"reflect"

	"github.com/zeebo/xxh3"

	"github.com/Konsultn-Engineering/aql/types"
)

// Generator produces values for columns whose insert cells are left to the
// library (see schema.Auto).
type Generator interface {
	Generate() (any, error)
	Type() string
}

// Default is the tri-state default of a column: unset, or set to a value
// that may itself be nil (rendered as NULL).
type Default struct {
	set   bool
	value any
}

// NoDefault is the zero Default.
var NoDefault = Default{}

// DefaultValue returns a Default holding v. DefaultValue(nil) is distinct
// from NoDefault.
func DefaultValue(v any) Default { return Default{set: true, value: v} }

func (d Default) IsSet() bool { return d.set }

func (d Default) Value() (any, bool) { return d.value, d.set }

func (d Default) String() string {
	if !d.set {
		return "<no default>"
	}
	return fmt.Sprintf("%#v", d.value)
}

// Column is an immutable column reference. Columns owned by a table carry
// the table name and render as "table"."column".
type Column struct {
	name      string
	table     string
	declared  types.Type
	def       Default
	generator Generator
}

type ColumnOption func(*Column)

// InTable sets the owning table name.
func InTable(table string) ColumnOption {
	return func(c *Column) { c.table = table }
}

// WithDefault sets the column default. Use it with nil for an explicit NULL default.
func WithDefault(v any) ColumnOption {
	return func(c *Column) { c.def = DefaultValue(v) }
}

// WithGenerator attaches an ID generator used for schema.Auto insert cells.
func WithGenerator(g Generator) ColumnOption {
	return func(c *Column) { c.generator = g }
}

// NewColumn returns a column with the given declared type. The type may be
// nil for ad-hoc columns that never take part in CREATE TABLE.
func NewColumn(name string, declared types.Type, opts ...ColumnOption) *Column {
	c := &Column{name: name, declared: declared}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Column) Type() NodeType         { return NodeColumn }
func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }

func (c *Column) Name() string { return c.name }
func (c *Column) TableName() string { return c.table }
func (c *Column) DeclaredType() types.Type { return c.declared }
func (c *Column) Default() Default { return c.def }
func (c *Column) Generator() Generator { return c.generator }
func (c *Column) String() string { return "<Column: " + c.FullName() + ">" }

// FullName is "table.column" for owned columns and the bare name otherwise.
func (c *Column) FullName() string {
	if c.table == "" {
		return c.name
	}
	return c.table + "." + c.name
}

// Equal compares columns by name, declared type, default and table.
func (c *Column) Equal(o *Column) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil {
		return false
	}
	return c.name == o.name &&
		c.table == o.table &&
		typeName(c.declared) == typeName(o.declared) &&
		c.def.set == o.def.set &&
		reflect.DeepEqual(c.def.value, o.def.value)
}

// Hash is consistent with Equal.
func (c *Column) Hash() uint64 {
	return xxh3.HashString(c.table + "\x00" + c.name + "\x00" + typeName(c.declared) + "\x00" + c.def.String())
}

func typeName(t types.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// The comparison helpers below build query nodes; they never compare
// anything themselves. col.Eq(5) means "col = 5" in the generated SQL.

func (c *Column) Eq(v any) Comparison { return Comparison{Column: c, Operator: OpEqual, Value: v} }
func (c *Column) Ne(v any) Comparison { return Comparison{Column: c, Operator: OpNotEqual, Value: v} }
func (c *Column) Gt(v any) Comparison {
	return Comparison{Column: c, Operator: OpGreaterThan, Value: v}
}
func (c *Column) Ge(v any) Comparison {
	return Comparison{Column: c, Operator: OpGreaterThanOrEqual, Value: v}
}
func (c *Column) Lt(v any) Comparison { return Comparison{Column: c, Operator: OpLessThan, Value: v} }
func (c *Column) Le(v any) Comparison {
	return Comparison{Column: c, Operator: OpLessThanOrEqual, Value: v}
}

// In matches any of the given values. A lone slice or array argument is
// expanded into its elements, except byte sequences such as []byte or a
// UUID, which stay one value.
func (c *Column) In(values ...any) Comparison {
	if len(values) == 1 {
		if vs, ok := elements(values[0]); ok {
			return Comparison{Column: c, Operator: OpIn, Value: vs}
		}
	}
	vs := make([]any, len(values))
	copy(vs, values)
	return Comparison{Column: c, Operator: OpIn, Value: vs}
}

func elements(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	vs := make([]any, rv.Len())
	for i := range vs {
		vs[i] = rv.Index(i).Interface()
	}
	return vs, true
}

func (c *Column) Like(pattern string) Comparison {
	return Comparison{Column: c, Operator: OpLike, Value: pattern}
}

func (c *Column) ILike(pattern string) Comparison {
	return Comparison{Column: c, Operator: OpILike, Value: pattern}
}
