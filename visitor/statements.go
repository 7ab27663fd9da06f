package visitor

import (
	"strings"

	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/query"
)

// VisitCreate renders CREATE TABLE. Indexes the dialect cannot declare
// inline follow as separate statements joined with "; ".
func (v *SQLVisitor) VisitCreate(q *query.Query) error {
	if err := q.Err(); err != nil {
		return err
	}
	t := q.Table()
	defs := make([]string, 0, len(t.Columns())+len(t.Indexes()))

	for _, col := range t.Columns() {
		ct, ok := t.ColumnType(col)
		if !ok {
			return &errs.BuildError{
				Op:     "create",
				Msg:    "no column type found for " + col.Name(),
				Reason: &errs.UnsupportedError{Kind: "untyped column", Value: col.Name()},
			}
		}
		typeName, ok := v.dialect.TypeName(ct)
		if !ok {
			return &errs.BuildError{
				Op:     "create",
				Msg:    "unsupported column type " + ct.Root.String() + " for " + col.Name(),
				Reason: &errs.UnsupportedError{Kind: "column type", Value: ct.Root},
			}
		}

		parts := []string{v.dialect.QuoteIdentifier(col.Name()), typeName}
		if !ct.Nullable {
			parts = append(parts, "NOT")
		}
		parts = append(parts, "NULL")
		if def, ok := col.Default().Value(); ok {
			parts = append(parts, "DEFAULT", v.dialect.RenderValue(def))
		}
		parts = append(parts, v.dialect.ColumnKeywords(ct)...)
		defs = append(defs, strings.Join(parts, " "))
	}

	var after []string
	for _, idx := range t.Indexes() {
		def, inline := v.dialect.IndexDefinition(t.Name(), idx, q.IfNotExists())
		if inline {
			defs = append(defs, def)
		} else {
			after = append(after, def)
		}
	}

	v.sb.WriteString("CREATE TABLE ")
	if q.IfNotExists() {
		v.sb.WriteString("IF NOT EXISTS ")
	}
	v.quote(t.Name())
	v.sb.WriteString(" (")
	v.sb.WriteString(strings.Join(defs, ", "))
	v.sb.WriteByte(')')
	for _, stmt := range after {
		v.sb.WriteString("; ")
		v.sb.WriteString(stmt)
	}
	return nil
}

// VisitInsert renders INSERT with one placeholder tuple per row, parameters
// flattened row by row.
func (v *SQLVisitor) VisitInsert(q *query.Query) error {
	if err := q.Err(); err != nil {
		return err
	}
	rows := q.Rows()
	if len(rows) == 0 {
		return errs.NewBuildError("insert", "no values specified")
	}

	v.sb.WriteString("INSERT INTO ")
	v.quote(q.Table().Name())
	v.sb.WriteString(" (")
	v.columnList(q.Columns(), false)
	v.sb.WriteString(") VALUES ")
	for i, row := range rows {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteByte('(')
		for j, cell := range row {
			if j > 0 {
				v.sb.WriteByte(',')
			}
			v.bind(cell)
		}
		v.sb.WriteByte(')')
	}
	return nil
}

// VisitSelect renders SELECT with joins, WHERE, GROUP BY/HAVING, ORDER BY
// and LIMIT/OFFSET in that order.
func (v *SQLVisitor) VisitSelect(q *query.Query) error {
	if err := q.Err(); err != nil {
		return err
	}
	v.sb.WriteString("SELECT ")
	v.sb.WriteString(q.Selector().String())
	v.sb.WriteByte(' ')
	v.columnList(q.Columns(), true)
	v.sb.WriteString(" FROM ")
	v.quote(q.Table().Name())

	for _, j := range q.Joins() {
		if err := j.Accept(v); err != nil {
			return err
		}
	}
	if err := v.where(q); err != nil {
		return err
	}
	if groupBy := q.GroupByColumns(); len(groupBy) > 0 {
		v.sb.WriteString(" GROUP BY ")
		v.columnList(groupBy, true)
		if having := q.HavingClauses(); len(having) > 0 {
			v.sb.WriteString(" HAVING ")
			if err := v.joinClauses(" AND ", having); err != nil {
				return err
			}
		}
	}
	if order := q.Order(); len(order) > 0 {
		v.sb.WriteString(" ORDER BY ")
		for i, o := range order {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := o.Accept(v); err != nil {
				return err
			}
		}
	}
	v.limit(q)
	return nil
}

// VisitUpdate renders UPDATE ... SET in assignment order.
func (v *SQLVisitor) VisitUpdate(q *query.Query) error {
	if err := q.Err(); err != nil {
		return err
	}
	if err := guard(q); err != nil {
		return err
	}
	v.sb.WriteString("UPDATE ")
	v.quote(q.Table().Name())
	v.sb.WriteString(" SET ")
	for i, a := range q.Updates() {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.quote(a.Column.Name())
		v.sb.WriteString(" = ")
		v.bind(a.Value)
	}
	return v.bounded(q)
}

func (v *SQLVisitor) VisitDelete(q *query.Query) error {
	if err := q.Err(); err != nil {
		return err
	}
	if err := guard(q); err != nil {
		return err
	}
	v.sb.WriteString("DELETE FROM ")
	v.quote(q.Table().Name())
	return v.bounded(q)
}
