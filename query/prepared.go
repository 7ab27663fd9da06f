package query

import (
	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/schema"
)

// PreparedQuery is a rendered statement: SQL text plus its positional
// parameters, in placeholder order.
type PreparedQuery struct {
	Table      *schema.Table
	Action     Action
	SQL        string
	Parameters []any

	// Columns and Factory describe result rows of a SELECT.
	Columns []*ast.Column
	Factory *schema.RecordType
}

// Prepared builds the PreparedQuery for q from rendered SQL and parameters.
func Prepared(q *Query, sql string, params []any) *PreparedQuery {
	pq := &PreparedQuery{
		Table:      q.table,
		Action:     q.action,
		SQL:        sql,
		Parameters: params,
	}
	if q.action == ActionSelect {
		pq.Columns = q.columns
		pq.Factory, _ = q.Factory()
	}
	return pq
}

// Unpack returns the SQL and parameters, ready for
// db.ExecContext(ctx, sql, params...).
func (p *PreparedQuery) Unpack() (string, []any) {
	return p.SQL, p.Parameters
}

func (p *PreparedQuery) String() string { return p.SQL }
