package dialect

import (
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

var mysqlTypes = map[types.Kind]string{
	types.Int:      "BIGINT",
	types.Float:    "DOUBLE",
	types.String:   "VARCHAR(255)",
	types.Text:     "TEXT",
	types.Bool:     "BOOLEAN",
	types.Bytes:    "BLOB",
	types.Date:     "DATE",
	types.Time:     "TIME",
	types.DateTime: "DATETIME",
	types.UUID:     "CHAR(36)",
	types.JSON:     "JSON",
}

func (m *MySQL) Name() string { return "mysql" }

func (m *MySQL) QuoteIdentifier(name string) string {
	return quote("`", name)
}

func (m *MySQL) Placeholder(int) string {
	return "?"
}

func (m *MySQL) RenderValue(v any) string {
	return renderValue(v, sqlBool, hexBlob)
}

func (m *MySQL) TypeName(ct types.ColumnType) (string, bool) {
	name, ok := mysqlTypes[ct.Root]
	return name, ok
}

func (m *MySQL) ColumnKeywords(ct types.ColumnType) []string {
	var kw []string
	if ct.AutoIncrement {
		kw = append(kw, "AUTO_INCREMENT")
	}
	if c := constraintKeyword(ct.Constraint); c != "" {
		kw = append(kw, c)
	}
	return kw
}

// IndexDefinition renders every index inline. MySQL ignores primary key
// names, so none is emitted for them.
func (m *MySQL) IndexDefinition(_ string, idx schema.Index, _ bool) (string, bool) {
	cols := quoteColumns(m, idx.Columns)
	switch idx.Kind {
	case types.PrimaryConstraint:
		return "PRIMARY KEY " + cols, true
	case types.UniqueConstraint:
		return "UNIQUE INDEX " + m.QuoteIdentifier(idx.Name()) + " " + cols, true
	default:
		return "INDEX " + m.QuoteIdentifier(idx.Name()) + " " + cols, true
	}
}

// NoLimit is the largest unsigned BIGINT, as the MySQL manual recommends.
func (m *MySQL) NoLimit() string { return "18446744073709551615" }

func (m *MySQL) RowIdentifier() string { return "" }
