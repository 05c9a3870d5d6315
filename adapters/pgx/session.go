package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farfully/farfully/core"
)

// Load returns the persisted record, or (nil, nil) when none exists, the row
// has expired, or the stored payload no longer parses. Stored state is a
// cache; a corrupt row reads as signed out rather than an error.
func (a *Adapter) Load() (*core.Profile, error) {
	var raw []byte
	err := a.pool.QueryRow(context.Background(),
		`SELECT record FROM farfully_sessions WHERE scope = $1 AND expires_at > now()`,
		a.scope,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var profile core.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, nil
	}
	if !profile.Valid() {
		return nil, nil
	}
	return &profile, nil
}

// Save upserts the record and refreshes its expiry.
func (a *Adapter) Save(p *core.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = a.pool.Exec(context.Background(),
		`INSERT INTO farfully_sessions (scope, record, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (scope) DO UPDATE SET record = $2, expires_at = $3`,
		a.scope, raw, time.Now().Add(a.ttl),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an absent record is not an error.
func (a *Adapter) Clear() error {
	_, err := a.pool.Exec(context.Background(),
		`DELETE FROM farfully_sessions WHERE scope = $1`, a.scope)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
