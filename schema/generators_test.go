package schema

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/types"
)

func TestUUIDGenerator(t *testing.T) {
	v, err := UUIDGenerator{}.Generate()
	require.NoError(t, err)
	_, err = uuid.Parse(v.(string))
	assert.NoError(t, err)
}

func TestULIDGeneratorMonotonic(t *testing.T) {
	g := NewULIDGenerator()
	a, err := g.Generate()
	require.NoError(t, err)
	b, err := g.Generate()
	require.NoError(t, err)

	ua, err := ulid.Parse(a.(string))
	require.NoError(t, err)
	ub, err := ulid.Parse(b.(string))
	require.NoError(t, err)
	assert.Equal(t, -1, ua.Compare(ub))
}

func TestGeneratorRegistry(t *testing.T) {
	r := NewGeneratorRegistry()
	assert.Equal(t, []string{"ulid", "uuid"}, r.Names())

	g, ok := r.Get("uuid")
	require.True(t, ok)
	assert.Equal(t, "uuid", g.Type())

	_, ok = r.Get("snowflake")
	assert.False(t, ok)

	g, ok = Generator("ulid")
	require.True(t, ok)
	assert.Equal(t, "ulid", g.Type())
}

func TestDeclareResolvesGeneratorNames(t *testing.T) {
	tbl, err := Declare("docs", []Field{
		F("id", types.Primary(types.String)).GeneratedByName("ulid"),
		F("ref", types.UUID).GeneratedByName("uuid"),
		F("body", types.Text),
	})
	require.NoError(t, err)
	assert.Equal(t, "ulid", tbl.C("id").Generator().Type())
	assert.Equal(t, "uuid", tbl.C("ref").Generator().Type())
	assert.Nil(t, tbl.C("body").Generator())

	_, err = Declare("docs", []Field{F("id", types.String).GeneratedByName("snowflake")})
	assert.ErrorIs(t, err, errs.ErrSchema)
	assert.ErrorContains(t, err, `unknown generator "snowflake"`)

	r := NewGeneratorRegistry()
	r.Register("fixed", fixedGenerator("k1"))
	RegisterGenerator("fixed-default", fixedGenerator("k2"))

	tbl, err = Declare("keys", []Field{F("id", types.String).GeneratedByName("fixed")}, WithGenerators(r))
	require.NoError(t, err)
	v, err := tbl.C("id").Generator().Generate()
	require.NoError(t, err)
	assert.Equal(t, "k1", v)

	tbl, err = Declare("keys", []Field{F("id", types.String).GeneratedByName("fixed-default")})
	require.NoError(t, err)
	v, err = tbl.C("id").Generator().Generate()
	require.NoError(t, err)
	assert.Equal(t, "k2", v)
}

type fixedGenerator string

func (g fixedGenerator) Generate() (any, error) { return string(g), nil }
func (g fixedGenerator) Type() string          { return "fixed" }

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		in   any
		want any
	}{
		{"bytes to string", types.String, []byte("abc"), "abc"},
		{"int from bytes", types.Int, []byte("42"), int64(42)},
		{"bool from int", types.Bool, int64(1), true},
		{"float from int", types.Float, int64(2), float64(2)},
		{"nil stays nil", types.Int, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.kind, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Convert(types.Bool, 3.5)
	assert.Error(t, err)
}
