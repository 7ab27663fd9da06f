package query

import (
	"slices"

	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/schema"
)

// Create starts a CREATE TABLE statement.
func (q *Query) Create(ifNotExists bool) *Query {
	if q.start("create", ActionCreate) {
		q.ifNotExists = ifNotExists
	}
	return q
}

// Insert starts an INSERT into the given columns, or all table columns
// when none are given. Rows are added with Values.
func (q *Query) Insert(columns ...*ast.Column) *Query {
	if q.start("insert", ActionInsert) {
		q.columns = q.columnsOrAll(columns)
	}
	return q
}

// Select starts a SELECT of the given columns, or all table columns when
// none are given.
func (q *Query) Select(columns ...*ast.Column) *Query {
	if q.start("select", ActionSelect) {
		q.columns = q.columnsOrAll(columns)
	}
	return q
}

// Update starts an UPDATE. Each criterion is either an equality Comparison
// (column.Eq(v) sets column to v) or a NamedValue from Set, resolved
// against the table's columns. Named values are applied first, so a
// comparison on the same column wins. Assignment order is first-seen order.
func (q *Query) Update(criteria ...any) *Query {
	if !q.start("update", ActionUpdate) {
		return q
	}
	if len(criteria) == 0 {
		return q.fail("update", "no update criteria specified")
	}

	var named []NamedValue
	var comps []ast.Comparison
	for _, c := range criteria {
		switch v := c.(type) {
		case NamedValue:
			named = append(named, v)
		case ast.Comparison:
			comps = append(comps, v)
		case *ast.Comparison:
			if v == nil {
				return q.fail("update", "nil comparison")
			}
			comps = append(comps, *v)
		default:
			return q.fail("update", "unsupported update criterion %T", c)
		}
	}

	for _, nv := range named {
		col, err := q.table.Column(nv.Name)
		if err != nil {
			q.AddError(&errs.BuildError{Op: "update", Msg: err.Error(), Reason: err})
			return q
		}
		q.assign(col, nv.Value)
	}
	for _, cmp := range comps {
		if cmp.Operator != ast.OpEqual {
			return q.fail("update", "only equality comparisons allowed in updates, got %s", cmp.Operator)
		}
		q.assign(cmp.Column, cmp.Value)
	}
	return q
}

func (q *Query) assign(col *ast.Column, v any) {
	for i := range q.updates {
		if q.updates[i].Column.Equal(col) {
			q.updates[i].Value = v
			return
		}
	}
	q.updates = append(q.updates, Assignment{Column: col, Value: v})
}

// Delete starts a DELETE. Rendering refuses a delete that has neither a
// where clause nor a limit unless Everything was called.
func (q *Query) Delete() *Query {
	q.start("delete", ActionDelete)
	return q
}

func (q *Query) columnsOrAll(columns []*ast.Column) []*ast.Column {
	if len(columns) == 0 {
		return slices.Clone(q.table.Columns())
	}
	return slices.Clone(columns)
}

// Values appends rows to an INSERT. Rows accumulate across calls. Each row
// must have one cell per inserted column; cells equal to schema.Auto are
// filled by the column's ID generator.
func (q *Query) Values(rows ...[]any) *Query {
	if !q.only("values", ActionInsert) {
		return q
	}
	for _, row := range rows {
		if len(row) != len(q.columns) {
			return q.fail("values", "row has %d values for %d columns", len(row), len(q.columns))
		}
		cells := slices.Clone(row)
		for i, cell := range cells {
			if cell != schema.Auto {
				continue
			}
			col := q.columns[i]
			gen := col.Generator()
			if gen == nil {
				return q.fail("values", "column %s has no generator for auto value", col.Name())
			}
			v, err := gen.Generate()
			if err != nil {
				q.AddError(&errs.BuildError{Op: "values", Msg: err.Error(), Reason: err})
				return q
			}
			cells[i] = v
		}
		q.rows = append(q.rows, cells)
	}
	return q
}
