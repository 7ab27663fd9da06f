package dialect

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

func all() []Dialect {
	return []Dialect{NewSQLDialect(), NewSQLiteDialect(), NewMySQLDialect(), NewPostgresDialect()}
}

// =========================================================================
// Quoting and placeholders
// =========================================================================

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"users"`, NewSQLDialect().QuoteIdentifier("users"))
	assert.Equal(t, `"a""b"`, NewSQLiteDialect().QuoteIdentifier(`a"b`))
	assert.Equal(t, "`users`", NewMySQLDialect().QuoteIdentifier("users"))
	assert.Equal(t, "`a``b`", NewMySQLDialect().QuoteIdentifier("a`b"))
	assert.Equal(t, `"users"`, NewPostgresDialect().QuoteIdentifier("users"))
}

func TestPlaceholder(t *testing.T) {
	for _, d := range all()[:3] {
		assert.Equal(t, "?", d.Placeholder(3), d.Name())
	}
	assert.Equal(t, "$3", NewPostgresDialect().Placeholder(3))
}

func TestLimitTokens(t *testing.T) {
	want := map[string][2]string{
		"sql":      {"", ""},
		"sqlite":   {"-1", "rowid"},
		"mysql":    {"18446744073709551615", ""},
		"postgres": {"", "ctid"},
	}
	for _, d := range all() {
		assert.Equal(t, want[d.Name()][0], d.NoLimit(), d.Name())
		assert.Equal(t, want[d.Name()][1], d.RowIdentifier(), d.Name())
	}
}

func TestRenderValue(t *testing.T) {
	d := NewSQLDialect()
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"it's", "'it''s'"},
		{true, "TRUE"},
		{42, "42"},
		{uint8(7), "7"},
		{1.5, "1.5"},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "'2024-01-02 03:04:05.000000'"},
		{[]byte{0xab}, "X'ab'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.RenderValue(tt.in))
	}
	assert.Equal(t, "1", NewSQLiteDialect().RenderValue(true))
	assert.Equal(t, `'\xab'::bytea`, NewPostgresDialect().RenderValue([]byte{0xab}))
}

// =========================================================================
// Column types and keywords
// =========================================================================

func TestTypeNames(t *testing.T) {
	ct := types.MustParse(types.String)
	want := map[string]string{"sql": "VARCHAR(255)", "sqlite": "TEXT", "mysql": "VARCHAR(255)", "postgres": "VARCHAR(255)"}
	for _, d := range all() {
		name, ok := d.TypeName(ct)
		require.True(t, ok)
		assert.Equal(t, want[d.Name()], name, d.Name())
	}

	_, ok := NewSQLDialect().TypeName(types.MustParse(types.JSON))
	assert.False(t, ok)

	name, _ := NewPostgresDialect().TypeName(types.MustParse(types.AutoIncrement(types.Int)))
	assert.Equal(t, "BIGSERIAL", name)
}

func TestColumnKeywordOrder(t *testing.T) {
	pk := types.MustParse(types.Primary(types.AutoIncrement(types.Int)))
	assert.Equal(t, []string{"AUTOINCREMENT", "PRIMARY KEY"}, NewSQLDialect().ColumnKeywords(pk))
	assert.Equal(t, []string{"PRIMARY KEY", "AUTOINCREMENT"}, NewSQLiteDialect().ColumnKeywords(pk))
	assert.Equal(t, []string{"AUTO_INCREMENT", "PRIMARY KEY"}, NewMySQLDialect().ColumnKeywords(pk))
	assert.Equal(t, []string{"PRIMARY KEY"}, NewPostgresDialect().ColumnKeywords(pk))

	plain := types.MustParse(types.Int)
	for _, d := range all() {
		assert.Empty(t, d.ColumnKeywords(plain), d.Name())
	}
	assert.Equal(t, []string{"UNIQUE"}, NewMySQLDialect().ColumnKeywords(types.MustParse(types.Unique(types.String))))
}

func TestIndexDefinitions(t *testing.T) {
	idx := schema.NewIndex("country", "postcode")
	pri := schema.NewPrimary("id")

	def, inline := NewSQLDialect().IndexDefinition("members", idx, false)
	assert.True(t, inline)
	assert.Equal(t, `INDEX "idx_country_postcode" ("country", "postcode")`, def)

	def, _ = NewSQLDialect().IndexDefinition("members", pri, false)
	assert.Equal(t, `CONSTRAINT "pri_id" PRIMARY KEY ("id")`, def)

	def, inline = NewMySQLDialect().IndexDefinition("members", idx, false)
	assert.True(t, inline)
	assert.Equal(t, "INDEX `idx_country_postcode` (`country`, `postcode`)", def)

	def, _ = NewMySQLDialect().IndexDefinition("members", schema.NewUnique("email"), false)
	assert.Equal(t, "UNIQUE INDEX `unq_email` (`email`)", def)

	def, inline = NewSQLiteDialect().IndexDefinition("members", idx, true)
	assert.False(t, inline)
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_country_postcode" ON "members" ("country", "postcode")`, def)

	_, inline = NewPostgresDialect().IndexDefinition("members", pri, false)
	assert.True(t, inline)
}

// =========================================================================
// Registry
// =========================================================================

func TestRegistry(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(slog.New(slog.NewTextHandler(&buf, nil)))
	RegisterBuiltins(r)
	assert.Equal(t, []string{"mysql", "postgres", "sql", "sqlite"}, r.Names())

	d, err := r.Get("MySQL")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	// the earlier registration wins
	assert.False(t, r.Register("SQLITE", NewMySQLDialect()))
	d, _ = r.Get("sqlite")
	assert.Equal(t, "sqlite", d.Name())
	assert.Contains(t, buf.String(), "duplicate engine name")

	_, err = r.Get("oracle")
	var unk *errs.UnknownEngineError
	require.ErrorAs(t, err, &unk)
	assert.ErrorIs(t, err, errs.ErrConnector)
	assert.Len(t, unk.Known, 4)
}
