// Package mysql connects aql to MySQL and MariaDB through
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/Konsultn-Engineering/aql/connector"
	"github.com/Konsultn-Engineering/aql/dialect"
)

const Name = "mysql"

type Provider struct{}

// Register adds the provider to m under "mysql" and "mariadb".
func Register(m *connector.Manager) bool {
	ok := m.Register(Name, Provider{})
	return m.Register("mariadb", Provider{}) && ok
}

func (Provider) Dialect() dialect.Dialect {
	return dialect.NewMySQLDialect()
}

func (Provider) Open(_ context.Context, loc connector.Location) (*sql.DB, error) {
	c, err := mysql.NewConnector(Config(loc))
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(c), nil
}

// Config maps a location onto the driver configuration. Times are parsed
// into time.Time and multiple statements are allowed, since CREATE TABLE
// may be followed by index statements.
func Config(loc connector.Location) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = loc.User
	cfg.Passwd = loc.Password
	cfg.DBName = loc.Database
	cfg.ParseTime = true
	cfg.MultiStatements = true
	switch {
	case loc.Socket != "":
		cfg.Net = "unix"
		cfg.Addr = loc.Socket
	case loc.Host != "":
		cfg.Net = "tcp"
		cfg.Addr = loc.Address()
		if loc.Port == 0 {
			cfg.Addr += ":3306"
		}
	}
	if len(loc.Params) > 0 {
		cfg.Params = make(map[string]string, len(loc.Params))
		for k, v := range loc.Params {
			cfg.Params[k] = v
		}
	}
	return cfg
}
