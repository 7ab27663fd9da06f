package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is shared; the client is safe for concurrent use once built.
var pluralizeClient = pluralizer.NewClient()

// =========================================================================
// Core Interfaces
// =========================================================================

// NamingStrategy maps record and field names to table and column names.
// It is used by DeclareRecord.
type NamingStrategy interface {
	ColumnNamingStrategy
	TableNamingStrategy
}

// ColumnNamingStrategy converts a field name to a column name.
type ColumnNamingStrategy interface {
	ColumnName(fieldName string) string
}

// TableNamingStrategy converts a record name to a table name.
type TableNamingStrategy interface {
	TableName(recordName string) string
}

// =========================================================================
// Strategies
// =========================================================================

// ColumnNamingType represents different column naming conventions.
type ColumnNamingType int

const (
	ColumnSnakeCase  ColumnNamingType = iota // user_id, first_name
	ColumnCamelCase                          // userId, firstName
	ColumnPascalCase                         // UserId, FirstName
	ColumnVerbatim                           // field name unchanged
)

type columnNamingStrategy struct {
	namingType ColumnNamingType
}

// NewColumnNamingStrategy creates a new column naming strategy.
func NewColumnNamingStrategy(namingType ColumnNamingType) ColumnNamingStrategy {
	return &columnNamingStrategy{namingType: namingType}
}

func (c *columnNamingStrategy) ColumnName(fieldName string) string {
	switch c.namingType {
	case ColumnCamelCase:
		return toCamelCase(fieldName)
	case ColumnPascalCase:
		return toPascalCase(fieldName)
	case ColumnVerbatim:
		return fieldName
	default:
		return toSnakeCase(fieldName)
	}
}

type tableNamingStrategy struct {
	plural bool
}

// NewTableNamingStrategy creates a snake_case table naming strategy,
// pluralized when plural is set.
func NewTableNamingStrategy(plural bool) TableNamingStrategy {
	return &tableNamingStrategy{plural: plural}
}

func (t *tableNamingStrategy) TableName(recordName string) string {
	snake := toSnakeCase(recordName)
	if t.plural {
		return pluralize(snake)
	}
	return snake
}

// CombinedNamingStrategy combines column and table naming strategies.
type CombinedNamingStrategy struct {
	ColumnNamingStrategy
	TableNamingStrategy
}

// DefaultNamingStrategy returns snake_case columns with plural snake_case tables.
func DefaultNamingStrategy() NamingStrategy {
	return &CombinedNamingStrategy{
		ColumnNamingStrategy: NewColumnNamingStrategy(ColumnSnakeCase),
		TableNamingStrategy:  NewTableNamingStrategy(true),
	}
}

// VerbatimNamingStrategy keeps field and record names unchanged.
func VerbatimNamingStrategy() NamingStrategy {
	return &CombinedNamingStrategy{
		ColumnNamingStrategy: NewColumnNamingStrategy(ColumnVerbatim),
		TableNamingStrategy:  verbatimTables{},
	}
}

type verbatimTables struct{}

func (verbatimTables) TableName(recordName string) string { return recordName }

// =========================================================================
// Core Conversion Functions
// =========================================================================

var commonInitialisms = map[string]string{
	"ID":   "id",
	"UUID": "uuid",
	"ULID": "ulid",
	"URL":  "url",
	"API":  "api",
	"JSON": "json",
	"SQL":  "sql",
}

// toSnakeCase converts any naming convention to snake_case, keeping
// acronyms together: UserID -> user_id, HTTPServer -> http_server.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	if s, ok := commonInitialisms[name]; ok {
		return s
	}
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 5)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func toCamelCase(name string) string {
	pascal := toPascalCase(name)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func toPascalCase(name string) string {
	var result strings.Builder
	for _, part := range strings.Split(toSnakeCase(name), "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		result.WriteString(string(runes))
	}
	return result.String()
}

// pluralize pluralizes the last word of a snake_case name: blog_post -> blog_posts.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	i := strings.LastIndexByte(name, '_')
	head, last := name[:i+1], name[i+1:]
	return head + pluralizeClient.Pluralize(last, 2, false)
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
