package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/aql/connector"
	"github.com/Konsultn-Engineering/aql/query"
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

func TestDSN(t *testing.T) {
	for uri, want := range map[string]string{
		"sqlite://:memory:":                            ":memory:",
		"sqlite:///var/lib/app.db":                     "/var/lib/app.db",
		"sqlite://data/app.db":                         "data/app.db",
		"sqlite://app.db?_pragma=foreign_keys%281%29": "app.db?_pragma=foreign_keys%281%29",
	} {
		loc, err := connector.ParseLocation(uri)
		require.NoError(t, err)
		assert.Equal(t, want, DSN(loc), uri)
	}
}

// TestRoundTrip runs every query action against an in-memory database.
func TestRoundTrip(t *testing.T) {
	m := connector.NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.True(t, Register(m))

	ctx := context.Background()
	conn, err := m.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	defer conn.Close()

	users, err := schema.DeclareRecord("User", []schema.Field{
		schema.F("ID", types.Primary(types.AutoIncrement(types.Int))),
		schema.F("Name", types.String),
		schema.F("Email", types.Unique(types.String)),
		schema.F("Active", types.Bool).WithDefault(true),
		schema.F("Country", types.Index(types.Optional(types.String))).WithDefault(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "users", users.Name())

	_, err = conn.Execute(ctx, query.Create(users, true))
	require.NoError(t, err)

	name, email, active, country := users.C("name"), users.C("email"), users.C("active"), users.C("country")
	res, err := conn.Execute(ctx, query.Insert(users, name, email, active, country).Values(
		query.Row("jo", "jo@example.com", true, "nz"),
		query.Row("al", "al@example.com", false, nil),
	))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowCount)
	assert.True(t, res.HasLastID)
	assert.Equal(t, int64(2), res.LastID)

	res, err = conn.Execute(ctx, query.Update(users, query.Set("active", true)).Where(name.Eq("al")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowCount)

	cur, err := conn.Query(ctx, query.Select(users).Where(active.Eq(true)).OrderBy(query.Desc(name)))
	require.NoError(t, err)
	rows, err := cur.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "User", rows[0].Type().Name())
	assert.Equal(t, []any{int64(1), "jo", "jo@example.com", true, "nz"}, rows[0].Values())
	assert.Equal(t, []any{int64(2), "al", "al@example.com", true, nil}, rows[1].Values())

	res, err = conn.Execute(ctx, query.Delete(users).Where(country.Eq("nz")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowCount)
	require.NoError(t, conn.Commit())

	cur, err = conn.Query(ctx, query.Select(users, name))
	require.NoError(t, err)
	rows, err = cur.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, _ := rows[0].Get("name")
	assert.Equal(t, "al", v)
	require.NoError(t, conn.Abort())
}

func TestBoundedWritesAndSliceIn(t *testing.T) {
	m := connector.NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.True(t, Register(m))

	ctx := context.Background()
	conn, err := m.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	defer conn.Close()
	conn.SetAutocommit(true)

	notes, err := schema.Declare("notes", []schema.Field{
		schema.F("id", types.Primary(types.AutoIncrement(types.Int))),
		schema.F("body", types.Text),
	})
	require.NoError(t, err)
	id, body := notes.C("id"), notes.C("body")

	_, err = conn.Execute(ctx, query.Create(notes, false))
	require.NoError(t, err)
	_, err = conn.Execute(ctx, query.Insert(notes, body).Values(
		query.Row("a"), query.Row("b"), query.Row("c"), query.Row("d"),
	))
	require.NoError(t, err)

	res, err := conn.Execute(ctx, query.Update(notes, query.Set("body", "x")).Where(id.Gt(1)).Limit(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowCount)

	res, err = conn.Execute(ctx, query.Delete(notes).Limit(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowCount)

	cur, err := conn.Query(ctx, query.Select(notes, body).Where(id.In([]int64{2, 3, 4})).OrderBy(query.Asc(id)))
	require.NoError(t, err)
	rows, err := cur.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	var bodies []any
	for _, r := range rows {
		v, _ := r.Get("body")
		bodies = append(bodies, v)
	}
	assert.Equal(t, []any{"x", "x", "d"}, bodies)
}
