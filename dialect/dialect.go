// Package dialect holds the per-engine parts of SQL rendering: identifier
// quoting, placeholders, literal values, column type names and the
// placement of constraint keywords in CREATE TABLE.
package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

type Dialect interface {
	// Name is the lowercase registry key.
	Name() string
	QuoteIdentifier(name string) string
	// Placeholder returns the token for the n-th parameter, starting at 1.
	Placeholder(n int) string
	// RenderValue renders v as an SQL literal, used for DEFAULT clauses.
	RenderValue(v any) string
	// TypeName maps a resolved column type to the engine's type name.
	TypeName(ct types.ColumnType) (string, bool)
	// ColumnKeywords returns the autoincrement and constraint keywords that
	// follow NULL and DEFAULT in a column definition, in engine order.
	ColumnKeywords(ct types.ColumnType) []string
	// IndexDefinition renders a table-level index. Inline definitions go
	// inside CREATE TABLE; others are separate statements run after it.
	IndexDefinition(table string, idx schema.Index, ifNotExists bool) (def string, inline bool)
	// NoLimit is the LIMIT operand meaning "all rows", needed when an
	// OFFSET is given alone. Empty when OFFSET may stand alone.
	NoLimit() string
	// RowIdentifier names the hidden row id an UPDATE or DELETE is bounded
	// through when the engine rejects LIMIT on those statements. Empty when
	// LIMIT may follow them directly.
	RowIdentifier() string
}

// quote wraps name in q, doubling any q inside it.
func quote(q, name string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func quoteColumns(d Dialect, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdentifier(c)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// renderValue is the literal renderer shared by all dialects; bytes and
// booleans differ per engine.
func renderValue(v any, boolean func(bool) string, bytes func([]byte) string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		return boolean(val)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05.000000") + "'"
	case []byte:
		return bytes(val)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}

func sqlBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func intBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func hexBlob(b []byte) string {
	return fmt.Sprintf("X'%x'", b)
}

func constraintKeyword(c types.Constraint) string {
	switch c {
	case types.PrimaryConstraint:
		return "PRIMARY KEY"
	case types.UniqueConstraint:
		return "UNIQUE"
	}
	return ""
}
