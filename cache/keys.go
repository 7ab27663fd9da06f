package cache

import "github.com/Konsultn-Engineering/aql/utils"

// Key fingerprints a statement for the cache. Statements rendered by
// different engines never share a key even when their text matches.
func Key(engine, query string) uint64 {
	return utils.Mix64(utils.Mix64(utils.Seed, utils.U64(engine)), utils.U64(query))
}
