package connector

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/aql/errs"
)

// Config represents database connection configuration. Location, when set,
// is parsed first; the discrete fields fill whatever it leaves empty.
type Config struct {
	Location string            `json:"location" yaml:"location"`
	Engine   string            `json:"engine" yaml:"engine"`
	Host     string            `json:"host" yaml:"host"`
	Port     int               `json:"port" yaml:"port"`
	Socket   string            `json:"socket" yaml:"socket"`
	Database string            `json:"database" yaml:"database"`
	Username string            `json:"username" yaml:"username"`
	Password string            `json:"password" yaml:"password"`
	Params   map[string]string `json:"params" yaml:"params"`

	Pool           PoolConfig    `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig  `json:"retry,omitempty" yaml:"retry,omitempty"`

	// StatementCache is the number of prepared statements kept per
	// connection. Zero disables statement caching.
	StatementCache int `json:"statement_cache" yaml:"statement_cache"`
	// SlowQuery logs statements running longer than this at Warn level.
	// Zero disables slow query logging.
	SlowQuery time.Duration `json:"slow_query" yaml:"slow_query"`
	// Autocommit runs each statement outside a transaction unless Begin
	// was called.
	Autocommit bool `json:"autocommit" yaml:"autocommit"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config. Durations use Go syntax ("250ms", "1m").
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Resolve merges Location and the discrete fields into a single Location.
func (c Config) Resolve() (Location, error) {
	var loc Location
	if c.Location != "" {
		var err error
		if loc, err = ParseLocation(c.Location); err != nil {
			return Location{}, err
		}
	}
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&loc.Engine, c.Engine)
	fill(&loc.Host, c.Host)
	fill(&loc.Socket, c.Socket)
	fill(&loc.Database, c.Database)
	fill(&loc.User, c.Username)
	fill(&loc.Password, c.Password)
	if loc.Port == 0 {
		loc.Port = c.Port
	}
	if len(c.Params) > 0 {
		if loc.Params == nil {
			loc.Params = make(map[string]string, len(c.Params))
		}
		for k, v := range c.Params {
			if _, ok := loc.Params[k]; !ok {
				loc.Params[k] = v
			}
		}
	}
	loc.Engine = strings.ToLower(loc.Engine)
	if loc.Engine == "" {
		return Location{}, &errs.LocationError{Location: c.Location, Reason: "no engine configured"}
	}
	return loc, nil
}
