package aql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/aql/connector"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/query"
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"mysql", "postgres", "sql", "sqlite"}, NewDialects(nil).Names())
	assert.Equal(t, []string{"mariadb", "mysql", "postgres", "postgresql", "sqlite"}, NewManager(nil).Names())
}

func TestPrepare(t *testing.T) {
	tbl, err := schema.Declare("t", []schema.Field{schema.F("x", types.Int)})
	require.NoError(t, err)

	pq, err := Prepare("MySQL", query.Select(tbl).Where(tbl.C("x").Eq(5)))
	require.NoError(t, err)
	sql, params := pq.Unpack()
	assert.Equal(t, "SELECT ALL `t`.`x` FROM `t` WHERE (`t`.`x` = ?)", sql)
	assert.Equal(t, []any{5}, params)

	_, err = Prepare("oracle", query.Select(tbl))
	var unknown *errs.UnknownEngineError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Known, "sqlite")
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, "sql://location")
	assert.ErrorIs(t, err, errs.ErrConnector)

	_, err = Connect(ctx, "nowhere")
	var le *errs.LocationError
	assert.ErrorAs(t, err, &le)

	conn, err := ConnectConfig(ctx, connector.Config{Location: "sqlite://:memory:", Autocommit: true})
	require.NoError(t, err)
	defer conn.Close()

	tbl, err := schema.Declare("notes", []schema.Field{
		schema.F("id", types.Primary(types.AutoIncrement(types.Int))),
		schema.F("body", types.Text),
	})
	require.NoError(t, err)

	_, err = conn.Execute(ctx, query.Create(tbl, false))
	require.NoError(t, err)
	_, err = conn.Execute(ctx, query.Insert(tbl, tbl.C("body")).Values(query.Row("hello")))
	require.NoError(t, err)

	cur, err := conn.Query(ctx, query.Select(tbl))
	require.NoError(t, err)
	rows, err := cur.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{"id": int64(1), "body": "hello"}, rows[0].Map())
}
