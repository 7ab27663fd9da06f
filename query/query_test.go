package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/schema"
	"github.com/Konsultn-Engineering/aql/types"
)

func contacts(t *testing.T) *schema.Table {
	t.Helper()
	tbl, err := schema.Declare("contacts", []schema.Field{
		schema.F("id", types.Primary(types.AutoIncrement(types.Int))),
		schema.F("name", types.String),
		schema.F("title", types.Optional(types.String)).WithDefault(nil),
	})
	require.NoError(t, err)
	return tbl
}

// =========================================================================
// State machine guards
// =========================================================================

func TestStartGuard(t *testing.T) {
	tbl := contacts(t)
	starters := map[string]func(*Query) *Query{
		"create": func(q *Query) *Query { return q.Create(false) },
		"insert": func(q *Query) *Query { return q.Insert() },
		"select": func(q *Query) *Query { return q.Select() },
		"update": func(q *Query) *Query { return q.Update(Set("name", "x")) },
		"delete": func(q *Query) *Query { return q.Delete() },
	}
	for first, start := range starters {
		for second, again := range starters {
			t.Run(first+"/"+second, func(t *testing.T) {
				q := start(New(tbl))
				require.NoError(t, q.Err())
				err := again(q).Err()
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrBuild)
				assert.ErrorIs(t, err, errs.ErrAlreadyStarted)
				assert.Contains(t, err.Error(), "already started with "+first)
			})
		}
	}
}

func TestOnlyGuard(t *testing.T) {
	tbl := contacts(t)
	id := tbl.C("id")

	selectOnly := map[string]func(*Query) *Query{
		"distinct": func(q *Query) *Query { return q.Distinct() },
		"join":     func(q *Query) *Query { return q.Join(tbl) },
		"groupby":  func(q *Query) *Query { return q.GroupBy(id) },
		"orderby":  func(q *Query) *Query { return q.OrderBy(Asc(id)) },
	}
	for name, call := range selectOnly {
		t.Run(name+" on delete", func(t *testing.T) {
			assert.ErrorIs(t, call(New(tbl).Delete()).Err(), errs.ErrBuild)
		})
		t.Run(name+" on insert", func(t *testing.T) {
			assert.ErrorIs(t, call(New(tbl).Insert()).Err(), errs.ErrBuild)
		})
		t.Run(name+" unstarted", func(t *testing.T) {
			assert.ErrorIs(t, call(New(tbl)).Err(), errs.ErrNotStarted)
		})
	}

	assert.Error(t, New(tbl).Select().Values(Row(1, "a", nil)).Err())
	assert.Error(t, New(tbl).Insert().Where(id.Eq(1)).Err())
	assert.Error(t, New(tbl).Select().Everything().Err())
	assert.Error(t, New(tbl).Limit(1).Err())
	assert.NoError(t, New(tbl).Create(true).Limit(1).Err())
}

func TestFirstErrorSticks(t *testing.T) {
	tbl := contacts(t)
	q := New(tbl).Delete().Distinct()
	first := q.Err()
	require.Error(t, first)

	q.Where(tbl.C("id").Eq(1)).Limit(-1)
	assert.Same(t, first, q.Err())
	assert.Empty(t, q.WhereClauses())
}

// =========================================================================
// Actions
// =========================================================================

func TestInsertValuesAccumulate(t *testing.T) {
	tbl := contacts(t)
	q := New(tbl).Insert(tbl.C("name"), tbl.C("title")).
		Values(Row("a", "x")).
		Values(Row("b", "y"), Row("c", nil))
	require.NoError(t, q.Err())
	assert.Len(t, q.Columns(), 2)
	assert.Equal(t, [][]any{{"a", "x"}, {"b", "y"}, {"c", nil}}, q.Rows())

	q = New(tbl).Insert().Values(Row("too", "few"))
	assert.ErrorIs(t, q.Err(), errs.ErrBuild)
}

func TestInsertAutoValues(t *testing.T) {
	tbl, err := schema.Declare("docs", []schema.Field{
		schema.F("id", types.Primary(types.UUID)).GeneratedBy(schema.UUIDGenerator{}),
		schema.F("body", types.Text),
	})
	require.NoError(t, err)

	q := New(tbl).Insert().Values(Row(schema.Auto, "hello"))
	require.NoError(t, q.Err())
	id, ok := q.Rows()[0][0].(string)
	require.True(t, ok)
	assert.Len(t, id, 36)

	q = New(tbl).Insert().Values(Row("fixed", schema.Auto))
	assert.ErrorIs(t, q.Err(), errs.ErrBuild)
}

func TestSelectDefaultsToAllColumns(t *testing.T) {
	tbl := contacts(t)
	q := New(tbl).Select()
	assert.Equal(t, tbl.Columns(), q.Columns())
	assert.Equal(t, SelectAll, q.Selector())
	assert.Equal(t, SelectDistinct, q.Distinct().Selector())
}

func TestUpdate(t *testing.T) {
	tbl := contacts(t)
	name, title := tbl.C("name"), tbl.C("title")

	q := New(tbl).Update(title.Eq("boss"), Set("name", "jo"), Set("title", "intern"))
	require.NoError(t, q.Err())
	assert.Equal(t, []Assignment{{name, "jo"}, {title, "boss"}}, q.Updates())

	assert.ErrorIs(t, New(tbl).Update().Err(), errs.ErrBuild)
	assert.ErrorIs(t, New(tbl).Update(name.Gt(1)).Err(), errs.ErrBuild)
	assert.ErrorIs(t, New(tbl).Update(42).Err(), errs.ErrBuild)

	err := New(tbl).Update(Set("nope", 1)).Err()
	var unk *errs.UnknownColumnError
	assert.ErrorAs(t, err, &unk)
}

func TestWhereGroupsAccumulate(t *testing.T) {
	tbl := contacts(t)
	id := tbl.C("id")

	q := New(tbl).Select().Where(id.Gt(1)).WhereAny(id.Lt(0), id.Gt(10))
	require.NoError(t, q.Err())
	require.Len(t, q.WhereClauses(), 2)
	assert.Equal(t, ast.And{id.Gt(1)}, q.WhereClauses()[0])
	assert.Equal(t, ast.Or{id.Lt(0), id.Gt(10)}, q.WhereClauses()[1])

	assert.ErrorIs(t, New(tbl).Select().Where().Err(), errs.ErrBuild)
}

func TestJoinPredicates(t *testing.T) {
	tbl := contacts(t)
	other := schema.MustTable("notes", ast.NewColumn("contact", types.Int, ast.InTable("notes")))
	id := tbl.C("id")

	q := New(tbl).Select().Join(other, ast.JoinLeft).On(id.Eq(other.C("contact")))
	require.NoError(t, q.Err())
	require.Len(t, q.Joins(), 1)
	assert.Equal(t, ast.JoinLeft, q.Joins()[0].Style)

	err := New(tbl).Select().Join(other).Using(id).On(id.Eq(1)).Err()
	assert.ErrorIs(t, err, errs.ErrJoinConflict)
	err = New(tbl).Select().Join(other).On(id.Eq(1)).Using(id).Err()
	assert.ErrorIs(t, err, errs.ErrJoinConflict)

	assert.ErrorIs(t, New(tbl).Select().On(id.Eq(1)).Err(), errs.ErrBuild)
	assert.ErrorIs(t, New(tbl).Select().Join(other).Using().Err(), errs.ErrBuild)
}

func TestGroupByHaving(t *testing.T) {
	tbl := contacts(t)
	name := tbl.C("name")

	q := New(tbl).Select(name).GroupBy(name).Having(name.Ne("")).HavingAny(name.Like("a%"), name.Like("b%"))
	require.NoError(t, q.Err())
	assert.Len(t, q.HavingClauses(), 2)

	assert.Error(t, New(tbl).Select().GroupBy(name).GroupBy(name).Err())
	assert.Error(t, New(tbl).Select().GroupBy().Err())
	assert.Error(t, New(tbl).Select().Having(name.Eq("x")).Err())
	assert.Error(t, New(tbl).Select().GroupBy(name).Having().Err())
}

func TestLimitOffset(t *testing.T) {
	tbl := contacts(t)
	q := New(tbl).Select().Limit(10, 20)
	n, ok := q.LimitValue()
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	n, ok = q.OffsetValue()
	assert.True(t, ok)
	assert.Equal(t, 20, n)

	q = New(tbl).Delete().Offset(5)
	_, ok = q.LimitValue()
	assert.False(t, ok)
}

func TestEverything(t *testing.T) {
	tbl := contacts(t)
	assert.True(t, New(tbl).Delete().Everything().IsEverything())
	assert.True(t, New(tbl).Update(Set("name", "x")).Everything().IsEverything())
}

// =========================================================================
// Factory and PreparedQuery
// =========================================================================

func TestFactory(t *testing.T) {
	tbl := contacts(t)

	rt, err := New(tbl).Select().Factory()
	require.NoError(t, err)
	assert.Same(t, tbl.Source(), rt)

	rt, err = New(tbl).Select(tbl.C("title"), tbl.C("id")).Factory()
	require.NoError(t, err)
	assert.Equal(t, "Row", rt.Name())
	assert.Equal(t, []string{"title", "id"}, rt.Fields())

	_, err = New(tbl).Delete().Factory()
	assert.True(t, errors.Is(err, errs.ErrBuild))
}

func TestFactoryQualifiesSharedNames(t *testing.T) {
	tbl := contacts(t)
	notes := schema.MustTable("notes",
		ast.NewColumn("contact", types.Int, ast.InTable("notes")),
		ast.NewColumn("name", types.String, ast.InTable("notes")),
	)

	q := New(tbl).Select(tbl.C("name"), notes.C("name"), tbl.C("id")).
		Join(notes).On(tbl.C("id").Eq(notes.C("contact")))
	rt, err := q.Factory()
	require.NoError(t, err)
	assert.Equal(t, []string{"contacts_name", "notes_name", "id"}, rt.Fields())

	rec, err := rt.New("jo", "memo", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"contacts_name": "jo", "notes_name": "memo", "id": 1}, rec.Map())

	_, err = New(tbl).Select(tbl.C("id"), tbl.C("id")).Factory()
	assert.ErrorIs(t, err, errs.ErrBuild)
	assert.ErrorContains(t, err, "column contacts_id selected more than once")
}

func TestPreparedUnpack(t *testing.T) {
	tbl := contacts(t)
	pq := Prepared(New(tbl).Select(), "SELECT 1", []any{1})
	sql, params := pq.Unpack()
	assert.Equal(t, "SELECT 1", sql)
	assert.Equal(t, []any{1}, params)
	assert.Same(t, tbl.Source(), pq.Factory)
	assert.Equal(t, ActionSelect, pq.Action)
}
