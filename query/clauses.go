package query

import (
	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/schema"
)

// Distinct switches a SELECT to SELECT DISTINCT.
func (q *Query) Distinct() *Query {
	if q.only("distinct", ActionSelect) {
		q.selector = SelectDistinct
	}
	return q
}

// Join appends a join against table, INNER unless a style is given. Use On
// or Using afterwards to attach its predicate.
func (q *Query) Join(table ast.TableRef, style ...ast.JoinType) *Query {
	if !q.only("join", ActionSelect) {
		return q
	}
	s := ast.JoinInner
	if len(style) > 0 {
		s = style[0]
	}
	q.joins = append(q.joins, ast.NewJoin(table, s))
	return q
}

// On attaches predicates to the most recent join.
func (q *Query) On(clauses ...ast.Clause) *Query {
	if !q.only("on", ActionSelect) {
		return q
	}
	if len(q.joins) == 0 {
		return q.fail("on", "no join to attach predicates to")
	}
	if len(clauses) == 0 {
		return q.fail("on", "no criteria specified for on clause")
	}
	q.AddError(q.joins[len(q.joins)-1].On(clauses...))
	return q
}

// Using joins the most recent join on equality of the named columns.
func (q *Query) Using(columns ...*ast.Column) *Query {
	if !q.only("using", ActionSelect) {
		return q
	}
	if len(q.joins) == 0 {
		return q.fail("using", "no join to attach columns to")
	}
	if len(columns) == 0 {
		return q.fail("using", "no columns specified for using clause")
	}
	q.AddError(q.joins[len(q.joins)-1].Using(columns...))
	return q
}

// GroupBy sets the GROUP BY columns. It may be called once.
func (q *Query) GroupBy(columns ...*ast.Column) *Query {
	if !q.only("groupby", ActionSelect) {
		return q
	}
	if len(q.groupBy) > 0 {
		return q.fail("groupby", "group by already specified")
	}
	if len(columns) == 0 {
		return q.fail("groupby", "no columns specified for group by clause")
	}
	q.groupBy = append(q.groupBy, columns...)
	return q
}

// Having appends one AND-grouped HAVING node. Calls accumulate and are
// ANDed together when rendered.
func (q *Query) Having(clauses ...ast.Clause) *Query {
	return q.addHaving("having", ast.GroupAnd, clauses)
}

// HavingAny is like Having but groups the clauses of this call with OR.
func (q *Query) HavingAny(clauses ...ast.Clause) *Query {
	return q.addHaving("having", ast.GroupOr, clauses)
}

func (q *Query) addHaving(op string, g ast.Grouping, clauses []ast.Clause) *Query {
	if !q.only(op, ActionSelect) {
		return q
	}
	if len(q.groupBy) == 0 {
		return q.fail(op, "having must be preceded by group by")
	}
	if len(clauses) == 0 {
		return q.fail(op, "no criteria specified for having clause")
	}
	q.having = append(q.having, g.Group(clauses...))
	return q
}

// Where appends one AND-grouped WHERE node. Calls accumulate and are
// ANDed together when rendered.
func (q *Query) Where(clauses ...ast.Clause) *Query {
	return q.addWhere("where", ast.GroupAnd, clauses)
}

// WhereAny is like Where but groups the clauses of this call with OR.
func (q *Query) WhereAny(clauses ...ast.Clause) *Query {
	return q.addWhere("where", ast.GroupOr, clauses)
}

func (q *Query) addWhere(op string, g ast.Grouping, clauses []ast.Clause) *Query {
	if !q.only(op, ActionSelect, ActionUpdate, ActionDelete) {
		return q
	}
	if len(clauses) == 0 {
		return q.fail(op, "no criteria specified for where clause")
	}
	q.where = append(q.where, g.Group(clauses...))
	return q
}

// OrderBy appends ORDER BY terms, built with Asc and Desc.
func (q *Query) OrderBy(terms ...ast.OrderBy) *Query {
	if !q.only("orderby", ActionSelect) {
		return q
	}
	if len(terms) == 0 {
		return q.fail("orderby", "no columns specified for order by clause")
	}
	for _, t := range terms {
		if t.Column == nil {
			return q.fail("orderby", "order by expects columns")
		}
	}
	q.orderBy = append(q.orderBy, terms...)
	return q
}

// Limit bounds the number of rows, optionally with an offset.
func (q *Query) Limit(n int, offset ...int) *Query {
	if !q.only("limit") {
		return q
	}
	if n < 0 {
		return q.fail("limit", "negative limit %d", n)
	}
	q.limit = &n
	if len(offset) > 0 {
		return q.Offset(offset[0])
	}
	return q
}

// Offset skips the first n rows.
func (q *Query) Offset(n int) *Query {
	if !q.only("offset") {
		return q
	}
	if n < 0 {
		return q.fail("offset", "negative offset %d", n)
	}
	q.offset = &n
	return q
}

// Everything marks an unconditional UPDATE or DELETE as intended.
func (q *Query) Everything() *Query {
	if q.only("everything", ActionUpdate, ActionDelete) {
		q.everything = true
	}
	return q
}

// Factory returns the record type rows of a SELECT materialize into: the
// table's source when exactly the table's columns are selected, otherwise
// a "Row" type with one field per selected column, in selection order.
// Column names shared by several selected columns become table_column; a
// column selected twice is an error.
func (q *Query) Factory() (*schema.RecordType, error) {
	if !q.only("factory", ActionSelect) {
		return nil, q.err
	}
	if src := q.table.Source(); src != nil && sameColumns(q.columns, q.table.Columns()) {
		return src, nil
	}
	count := make(map[string]int, len(q.columns))
	for _, c := range q.columns {
		count[c.Name()]++
	}
	names := make([]string, len(q.columns))
	taken := make(map[string]bool, len(q.columns))
	for i, c := range q.columns {
		name := c.Name()
		if count[name] > 1 && c.TableName() != "" {
			name = c.TableName() + "_" + name
		}
		if taken[name] {
			return nil, errs.NewBuildError("factory", "column %s selected more than once", name)
		}
		taken[name] = true
		names[i] = name
	}
	return schema.NewRecordType("Row", names...), nil
}

func sameColumns(a, b []*ast.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
