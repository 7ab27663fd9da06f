package schema

import (
	"slices"
	"strings"

	"github.com/Konsultn-Engineering/aql/types"
)

// Index is a table-level constraint over one or more columns, referenced by
// name. Two indexes are equal when their kind and column lists match; the
// name does not take part.
type Index struct {
	Kind    types.Constraint
	Columns []string
	name    string
}

// NewIndex declares a plain index.
func NewIndex(columns ...string) Index { return newIndex(types.IndexConstraint, columns) }

// NewUnique declares a uniqueness constraint.
func NewUnique(columns ...string) Index { return newIndex(types.UniqueConstraint, columns) }

// NewPrimary declares a primary key.
func NewPrimary(columns ...string) Index { return newIndex(types.PrimaryConstraint, columns) }

func newIndex(kind types.Constraint, columns []string) Index {
	return Index{Kind: kind, Columns: slices.Clone(columns)}
}

// Named returns a copy of the index with an explicit name.
func (i Index) Named(name string) Index {
	i.name = name
	return i
}

// Name is the explicit name, or <prefix>_<col1>_<col2>... when none was given.
func (i Index) Name() string {
	if i.name != "" {
		return i.name
	}
	return strings.Join(append([]string{i.Kind.Prefix()}, i.Columns...), "_")
}

func (i Index) Equal(o Index) bool {
	return i.Kind == o.Kind && slices.Equal(i.Columns, o.Columns)
}

func (i Index) String() string {
	return "<" + i.Kind.String() + ": " + i.Name() + ">"
}
