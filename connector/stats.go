package connector

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"
)

// QueryStats counts statements run through a Connection.
type QueryStats struct {
	Queries  atomic.Int64
	Execs    atomic.Int64
	Duration atomic.Int64 // nanoseconds
	Slow     atomic.Int64
	Errors   atomic.Int64
}

func (s *QueryStats) record(rows bool, d time.Duration, slow bool, err error) {
	if rows {
		s.Queries.Add(1)
	} else {
		s.Execs.Add(1)
	}
	s.Duration.Add(int64(d))
	if slow {
		s.Slow.Add(1)
	}
	if err != nil {
		s.Errors.Add(1)
	}
}

// ConnectionStats is a point-in-time snapshot of pool and query statistics.
type ConnectionStats struct {
	OpenConnections int
	InUse           int
	Idle            int

	Queries  int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
}

func newConnectionStats(db sql.DBStats, q *QueryStats) ConnectionStats {
	return ConnectionStats{
		OpenConnections: db.OpenConnections,
		InUse:           db.InUse,
		Idle:            db.Idle,
		Queries:         q.Queries.Load(),
		Execs:           q.Execs.Load(),
		Duration:        time.Duration(q.Duration.Load()),
		Slow:            q.Slow.Load(),
		Errors:          q.Errors.Load(),
	}
}

func (s ConnectionStats) String() string {
	return fmt.Sprintf("open=%d in_use=%d idle=%d queries=%d execs=%d duration=%s slow=%d errors=%d",
		s.OpenConnections, s.InUse, s.Idle, s.Queries, s.Execs, s.Duration, s.Slow, s.Errors)
}
