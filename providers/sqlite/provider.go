// Package sqlite connects aql to SQLite through the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/aql/connector"
	"github.com/Konsultn-Engineering/aql/dialect"
)

const Name = "sqlite"

type Provider struct{}

// Register adds the provider to m under "sqlite".
func Register(m *connector.Manager) bool {
	return m.Register(Name, Provider{})
}

func (Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLiteDialect()
}

func (Provider) Open(_ context.Context, loc connector.Location) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(loc))
	if err != nil {
		return nil, err
	}
	if isMemory(loc) {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// DSN turns a location into a file name with query parameters. A host is
// read as the first path segment, so sqlite://data/app.db names data/app.db.
func DSN(loc connector.Location) string {
	path := loc.Database
	if loc.Host != "" {
		path = loc.Host + "/" + path
	}
	if len(loc.Params) == 0 {
		return path
	}
	values := url.Values{}
	for k, v := range loc.Params {
		values.Set(k, v)
	}
	return path + "?" + values.Encode()
}

func isMemory(loc connector.Location) bool {
	return loc.Database == ":memory:" || strings.Contains(loc.Params["mode"], "memory")
}
