package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU64Stable(t *testing.T) {
	assert.Equal(t, U64("users.id"), U64("users.id"))
	assert.NotEqual(t, U64("users.id"), U64("users.name"))
}

func TestMix64OrderMatters(t *testing.T) {
	a, b := U64("a"), U64("b")
	assert.NotEqual(t, Mix64(a, b), Mix64(b, a))
	assert.Equal(t, Mix64(Seed, a), Mix64(Seed, a))
}
