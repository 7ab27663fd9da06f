// Package postgres connects aql to PostgreSQL through pgx's database/sql
// adapter.
package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Konsultn-Engineering/aql/connector"
	"github.com/Konsultn-Engineering/aql/dialect"
)

const Name = "postgres"

type Provider struct{}

// Register adds the provider to m under "postgres" and "postgresql".
func Register(m *connector.Manager) bool {
	ok := m.Register(Name, Provider{})
	return m.Register("postgresql", Provider{}) && ok
}

func (Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (Provider) Open(_ context.Context, loc connector.Location) (*sql.DB, error) {
	b := DSN(loc)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	cfg, err := pgx.ParseConfig(b.Build())
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*cfg), nil
}

// DSN builds a postgres:// connection string, defaulting sslmode to
// prefer and the connect timeout to ten seconds.
func DSN(loc connector.Location) *connector.DSNBuilder {
	return connector.FromLocation("postgres", loc).
		Default("sslmode", "prefer").
		Default("connect_timeout", "10")
}
