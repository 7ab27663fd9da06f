package dialect

import (
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

// SQLite stores most values with type affinity: dates, times and UUIDs are
// TEXT and booleans are integers.
type SQLite struct {
	*SQL
}

func NewSQLiteDialect() Dialect {
	return &SQLite{SQL: &SQL{typeNames: sqliteTypes}}
}

var sqliteTypes = map[types.Kind]string{
	types.Int:      "INTEGER",
	types.Float:    "REAL",
	types.String:   "TEXT",
	types.Text:     "TEXT",
	types.Bool:     "INTEGER",
	types.Bytes:    "BLOB",
	types.Date:     "TEXT",
	types.Time:     "TEXT",
	types.DateTime: "TEXT",
	types.UUID:     "TEXT",
	types.JSON:     "TEXT",
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) RenderValue(v any) string {
	return renderValue(v, intBool, hexBlob)
}

// ColumnKeywords puts AUTOINCREMENT after PRIMARY KEY, the only order
// SQLite accepts.
func (s *SQLite) ColumnKeywords(ct types.ColumnType) []string {
	var kw []string
	if c := constraintKeyword(ct.Constraint); c != "" {
		kw = append(kw, c)
	}
	if ct.AutoIncrement {
		kw = append(kw, "AUTOINCREMENT")
	}
	return kw
}

// IndexDefinition keeps keys inline; SQLite has no inline INDEX so plain
// indexes become CREATE INDEX statements.
func (s *SQLite) IndexDefinition(table string, idx schema.Index, ifNotExists bool) (string, bool) {
	if idx.Kind == types.PrimaryConstraint || idx.Kind == types.UniqueConstraint {
		return s.constraintDefinition(idx), true
	}
	return s.createIndex(table, idx, ifNotExists), false
}

func (s *SQLite) NoLimit() string { return "-1" }

// RowIdentifier is rowid; stock SQLite builds reject UPDATE/DELETE ... LIMIT.
func (s *SQLite) RowIdentifier() string { return "rowid" }
