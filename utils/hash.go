package utils

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Seed starts a rolling fingerprint chain.
const Seed uint64 = 0x9e3779b185ebca87

// U64 hashes a string to a 64-bit fingerprint.
func U64(s string) uint64 {
	return xxh3.HashString(s)
}

// Mix64 folds b into the running fingerprint a. The result depends on order.
func Mix64(a, b uint64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], a)
	binary.BigEndian.PutUint64(buf[8:], b)
	return xxh3.Hash(buf[:])
}
