package connector

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/aql/errs"
)

// Location is a parsed connection URI of the form
//
//	<engine>://[user[:password]@][host[:port] | unix(/socket)]/<database>[?k=v&...]
//	<engine>://<database>[?k=v&...]
//
// The second form carries only a database, as in sqlite://:memory: or
// sqlite://app.db. A database path keeps its leading slash when the
// authority is empty: sqlite:///var/lib/app.db names /var/lib/app.db.
type Location struct {
	Engine   string
	Socket   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Params   map[string]string
}

var locationRegex = regexp.MustCompile(`^(\w+)://(.+)$`)

// ParseLocation splits a connection URI into its parts. The engine name is
// lowercased.
func ParseLocation(uri string) (Location, error) {
	m := locationRegex.FindStringSubmatch(uri)
	if m == nil {
		return Location{}, &errs.LocationError{Location: uri, Reason: "expected <engine>://<location>"}
	}
	loc := Location{Engine: strings.ToLower(m[1])}
	rest := m[2]

	if i := strings.IndexByte(rest, '?'); i >= 0 {
		values, err := url.ParseQuery(rest[i+1:])
		if err != nil {
			return Location{}, &errs.LocationError{Location: uri, Reason: "bad parameters: " + err.Error()}
		}
		loc.Params = make(map[string]string, len(values))
		for k, vs := range values {
			loc.Params[k] = vs[len(vs)-1]
		}
		rest = rest[:i]
	}

	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		user, password, _ := strings.Cut(rest[:i], ":")
		var err error
		if loc.User, err = url.PathUnescape(user); err != nil {
			return Location{}, &errs.LocationError{Location: uri, Reason: "bad user: " + err.Error()}
		}
		if loc.Password, err = url.PathUnescape(password); err != nil {
			return Location{}, &errs.LocationError{Location: uri, Reason: "bad password: " + err.Error()}
		}
		rest = rest[i+1:]
	} else if !strings.Contains(rest, "/") {
		loc.Database = rest
		return loc, nil
	}

	authority, database, err := splitAuthority(rest)
	if err != nil {
		return Location{}, &errs.LocationError{Location: uri, Reason: err.Error()}
	}
	loc.Database = database

	switch {
	case authority == "":
	case strings.HasPrefix(authority, "unix(") && strings.HasSuffix(authority, ")"):
		loc.Socket = authority[len("unix(") : len(authority)-1]
	default:
		host, port, err := splitHostPort(authority)
		if err != nil {
			return Location{}, &errs.LocationError{Location: uri, Reason: err.Error()}
		}
		loc.Host, loc.Port = host, port
	}
	return loc, nil
}

// splitAuthority separates "host:port/db" or "unix(/path)/db". An empty
// authority keeps the database path absolute.
func splitAuthority(s string) (authority, database string, err error) {
	if strings.HasPrefix(s, "unix(") {
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return "", "", errors.New("unterminated unix( socket")
		}
		authority, s = s[:end+1], s[end+1:]
		return authority, strings.TrimPrefix(s, "/"), nil
	}
	if strings.HasPrefix(s, "/") {
		return "", s, nil
	}
	authority, database, _ = strings.Cut(s, "/")
	return authority, database, nil
}

func splitHostPort(s string) (string, int, error) {
	if !strings.Contains(s, ":") || (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) {
		return strings.Trim(s, "[]"), 0, nil
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "", 0, fmt.Errorf("invalid port %q", port)
	}
	return host, n, nil
}

// Address is host:port, or the host alone when no port was given.
func (l Location) Address() string {
	if l.Port == 0 {
		return l.Host
	}
	return net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
}

// String renders the location back to URI form with the password masked,
// suitable for logs.
func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Engine)
	b.WriteString("://")
	authority := l.Address()
	if l.Socket != "" {
		authority = "unix(" + l.Socket + ")"
	}
	if l.User != "" {
		b.WriteString(url.PathEscape(l.User))
		if l.Password != "" {
			b.WriteString(":***")
		}
		b.WriteByte('@')
	}
	if authority == "" && l.User == "" && !strings.HasPrefix(l.Database, "/") {
		b.WriteString(l.Database)
	} else {
		b.WriteString(authority)
		if !strings.HasPrefix(l.Database, "/") {
			b.WriteByte('/')
		}
		b.WriteString(l.Database)
	}
	if len(l.Params) > 0 {
		keys := make([]string, 0, len(l.Params))
		for k := range l.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k) + "=" + url.QueryEscape(l.Params[k]))
		}
	}
	return b.String()
}
