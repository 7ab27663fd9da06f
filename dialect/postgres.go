package dialect

import (
	"fmt"
	"strconv"

	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

type Postgres struct {
	*SQL
}

func NewPostgresDialect() Dialect {
	return &Postgres{SQL: &SQL{typeNames: postgresTypes}}
}

var postgresTypes = map[types.Kind]string{
	types.Int:      "BIGINT",
	types.Float:    "DOUBLE PRECISION",
	types.String:   "VARCHAR(255)",
	types.Text:     "TEXT",
	types.Bool:     "BOOLEAN",
	types.Bytes:    "BYTEA",
	types.Date:     "DATE",
	types.Time:     "TIME",
	types.DateTime: "TIMESTAMP",
	types.UUID:     "UUID",
	types.JSON:     "JSONB",
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (p *Postgres) RenderValue(v any) string {
	return renderValue(v, sqlBool, func(b []byte) string {
		return fmt.Sprintf("'\\x%x'::bytea", b)
	})
}

// TypeName maps autoincrement integers to BIGSERIAL; Postgres has no
// AUTOINCREMENT keyword.
func (p *Postgres) TypeName(ct types.ColumnType) (string, bool) {
	if ct.AutoIncrement && ct.Root == types.Int {
		return "BIGSERIAL", true
	}
	return p.SQL.TypeName(ct)
}

func (p *Postgres) ColumnKeywords(ct types.ColumnType) []string {
	if c := constraintKeyword(ct.Constraint); c != "" {
		return []string{c}
	}
	return nil
}

func (p *Postgres) IndexDefinition(table string, idx schema.Index, ifNotExists bool) (string, bool) {
	if idx.Kind == types.PrimaryConstraint || idx.Kind == types.UniqueConstraint {
		return p.constraintDefinition(idx), true
	}
	return p.createIndex(table, idx, ifNotExists), false
}

func (p *Postgres) RowIdentifier() string { return "ctid" }
