package dialect

import (
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

// SQL is the generic dialect: standard double-quoted identifiers and "?"
// placeholders. It is the base the SQLite and Postgres dialects embed.
type SQL struct {
	typeNames map[types.Kind]string
}

func NewSQLDialect() Dialect {
	return &SQL{typeNames: sqlTypes}
}

var sqlTypes = map[types.Kind]string{
	types.Int:      "BIGINT",
	types.Float:    "DOUBLE PRECISION",
	types.String:   "VARCHAR(255)",
	types.Text:     "TEXT",
	types.Bool:     "BOOLEAN",
	types.Bytes:    "BLOB",
	types.Date:     "DATE",
	types.Time:     "TIME",
	types.DateTime: "TIMESTAMP",
	types.UUID:     "CHAR(36)",
}

func (s *SQL) Name() string { return "sql" }

func (s *SQL) QuoteIdentifier(name string) string {
	return quote(`"`, name)
}

func (s *SQL) Placeholder(int) string {
	return "?"
}

func (s *SQL) RenderValue(v any) string {
	return renderValue(v, sqlBool, hexBlob)
}

func (s *SQL) TypeName(ct types.ColumnType) (string, bool) {
	name, ok := s.typeNames[ct.Root]
	return name, ok
}

func (s *SQL) ColumnKeywords(ct types.ColumnType) []string {
	var kw []string
	if ct.AutoIncrement {
		kw = append(kw, "AUTOINCREMENT")
	}
	if c := constraintKeyword(ct.Constraint); c != "" {
		kw = append(kw, c)
	}
	return kw
}

func (s *SQL) IndexDefinition(_ string, idx schema.Index, _ bool) (string, bool) {
	return s.constraintDefinition(idx), true
}

// constraintDefinition renders an inline named constraint with the
// double-quote rules shared by the embedding dialects.
func (s *SQL) constraintDefinition(idx schema.Index) string {
	name := s.QuoteIdentifier(idx.Name())
	cols := quoteColumns(s, idx.Columns)
	switch idx.Kind {
	case types.PrimaryConstraint:
		return "CONSTRAINT " + name + " PRIMARY KEY " + cols
	case types.UniqueConstraint:
		return "CONSTRAINT " + name + " UNIQUE " + cols
	default:
		return "INDEX " + name + " " + cols
	}
}

// createIndex renders a standalone CREATE INDEX statement.
func (s *SQL) createIndex(table string, idx schema.Index, ifNotExists bool) string {
	ine := ""
	if ifNotExists {
		ine = "IF NOT EXISTS "
	}
	return "CREATE INDEX " + ine + s.QuoteIdentifier(idx.Name()) + " ON " + s.QuoteIdentifier(table) + " " + quoteColumns(s, idx.Columns)
}

func (s *SQL) NoLimit() string { return "" }

func (s *SQL) RowIdentifier() string { return "" }
