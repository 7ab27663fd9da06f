package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNBuilder(t *testing.T) {
	b := NewDSNBuilder("postgres").
		Auth("app", "p@ss").
		Host("db", 5432).
		Database("shop").
		Param("sslmode", "disable").
		Param("empty", "").
		Default("sslmode", "prefer").
		Default("connect_timeout", "10")

	require.NoError(t, b.Validate())
	assert.Equal(t, "postgres://app:p%40ss@db:5432/shop?connect_timeout=10&sslmode=disable", b.Build())
}

func TestDSNFromLocation(t *testing.T) {
	loc, err := ParseLocation("postgres://app@unix(/var/run/postgresql)/shop")
	require.NoError(t, err)

	b := FromLocation("postgres", loc)
	require.NoError(t, b.Validate())
	assert.Equal(t, "postgres://app@/shop?host=%2Fvar%2Frun%2Fpostgresql", b.Build())

	assert.Error(t, NewDSNBuilder("postgres").Validate())
	assert.Error(t, NewDSNBuilder("postgres").Host("db", 70000).Validate())
}
