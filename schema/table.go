// Package schema describes relations: tables, their columns, resolved
// column types, indexes and the record type rows materialize into.
package schema

import (
	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/types"
)

// Table is an immutable relation description. Columns keep their
// registration order and are looked up by name in constant time.
type Table struct {
	name        string
	columns     []*ast.Column
	byName      map[string]*ast.Column
	columnTypes map[*ast.Column]types.ColumnType
	indexes     []Index
	source      *RecordType
}

// NewTable builds a table from columns and indexes. Entries must be
// *ast.Column or Index values. Column-level Index constraints are folded
// into the index list; Primary and Unique column constraints stay inline.
func NewTable(name string, cons ...any) (*Table, error) {
	t := &Table{
		name:        name,
		byName:      make(map[string]*ast.Column, len(cons)),
		columnTypes: make(map[*ast.Column]types.ColumnType, len(cons)),
	}

	for _, con := range cons {
		switch c := con.(type) {
		case *ast.Column:
			if err := t.addColumn(c); err != nil {
				return nil, err
			}
		case Index:
			if len(c.Columns) == 0 {
				return nil, &errs.ConstraintError{Table: name, Value: c}
			}
			t.indexes = append(t.indexes, c)
		default:
			return nil, &errs.ConstraintError{Table: name, Value: con}
		}
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(name string, cons ...any) *Table {
	t, err := NewTable(name, cons...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) addColumn(c *ast.Column) error {
	if c == nil {
		return &errs.ConstraintError{Table: t.name, Value: c}
	}
	if _, dup := t.byName[c.Name()]; dup {
		return &errs.DuplicateColumnError{Table: t.name, Column: c.Name()}
	}
	t.columns = append(t.columns, c)
	t.byName[c.Name()] = c

	if c.DeclaredType() == nil {
		return nil
	}
	ct, err := types.Parse(c.DeclaredType())
	if err != nil {
		return err
	}
	if ct.Constraint == types.IndexConstraint {
		t.indexes = append(t.indexes, NewIndex(c.Name()))
	}
	t.columnTypes[c] = ct
	return nil
}

// WithSource returns a copy of the table bound to a record type.
func (t *Table) WithSource(rt *RecordType) *Table {
	cp := *t
	cp.source = rt
	return &cp
}

func (t *Table) Name() string          { return t.name }
func (t *Table) String() string        { return "<Table: " + t.name + ">" }
func (t *Table) Source() *RecordType   { return t.source }
func (t *Table) Indexes() []Index      { return t.indexes }
func (t *Table) Columns() []*ast.Column { return t.columns }

// Contains reports whether a column with the given name exists.
func (t *Table) Contains(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the column registered under name.
func (t *Table) Column(name string) (*ast.Column, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, &errs.UnknownColumnError{Table: t.name, Column: name}
	}
	return c, nil
}

// C is like Column but panics when the column does not exist. It keeps
// query construction against declared tables terse.
func (t *Table) C(name string) *ast.Column {
	c, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return c
}

// ColumnType returns the resolved type of a column owned by the table.
// Columns declared without a type have none.
func (t *Table) ColumnType(c *ast.Column) (types.ColumnType, bool) {
	ct, ok := t.columnTypes[c]
	return ct, ok
}

// New instantiates a row of the bound source record type.
func (t *Table) New(values ...any) (Record, error) {
	if t.source == nil {
		return Record{}, &errs.NoSourceError{Table: t.name}
	}
	return t.source.New(values...)
}
