// Package pgx persists the identity record in Postgres. It suits server-side
// deployments where many farfully instances share one session table; desktop
// clients use the file-backed store instead.
//
// Expected schema:
//
//	CREATE TABLE farfully_sessions (
//	    scope      text PRIMARY KEY,
//	    record     jsonb NOT NULL,
//	    expires_at timestamptz NOT NULL
//	);
package pgx

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farfully/farfully/core"
)

// DefaultRetention matches the browser client's cookie lifetime.
const DefaultRetention = 7 * 24 * time.Hour

type Adapter struct {
	pool  *pgxpool.Pool
	scope string
	ttl   time.Duration
}

var _ core.SessionStore = (*Adapter)(nil)

// New builds a session store over pool. scope distinguishes independent
// sessions sharing one table (one per device or per account, caller's
// choice).
func New(pool *pgxpool.Pool, scope string) *Adapter {
	return &Adapter{
		pool:  pool,
		scope: scope,
		ttl:   DefaultRetention,
	}
}
