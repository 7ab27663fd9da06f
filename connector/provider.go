package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/aql/dialect"
)

// Provider opens databases for one engine and names the dialect its
// queries render with.
type Provider interface {
	Dialect() dialect.Dialect
	// Open returns a database handle for loc. The manager pings it and
	// applies pool settings afterwards.
	Open(ctx context.Context, loc Location) (*sql.DB, error)
}
