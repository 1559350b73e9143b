/*

Durable journal of engine events. The engines' in-memory ledgers are the
source of truth; this journal exists for external observers and indexers, so
a failed insert is logged and never fails the emitting operation.

*/

package state

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crestdex/crest/internal/logger"
	"github.com/crestdex/crest/internal/types"
	"github.com/crestdex/crest/internal/utils"
)

// EventStore persists engine events to Postgres. It implements
// types.Recorder.
type EventStore struct {
	log zerolog.Logger
}

// NewEventStore creates a journal writer over the global connection pool.
func NewEventStore() (*EventStore, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return &EventStore{log: logger.GetForComponent("event_store")}, nil
}

// Record inserts one event row.
func (s *EventStore) Record(ev types.Event) {
	const insertSQL = `
		INSERT INTO engine_events (id, kind, account, denom, amount_a, amount_b, shares, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := DB.Exec(insertSQL,
		ev.ID,
		string(ev.Kind),
		ev.Account.String(),
		ev.Denom.String(),
		ev.AmountA.String(),
		ev.AmountB.String(),
		ev.Shares.String(),
		ev.Timestamp,
	)
	if err != nil {
		s.log.Error().Err(err).
			Str("kind", string(ev.Kind)).
			Str("account", ev.Account.String()).
			Msg("Failed to persist engine event")
	}
}

// GetRecentEvents returns the most recent events, newest first.
func GetRecentEvents(limit int) ([]types.Event, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	const querySQL = `
		SELECT id, kind, account, denom, amount_a, amount_b, shares, created_at
		FROM engine_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := DB.Query(querySQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query engine events: %w", err)
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var (
			ev                       types.Event
			kind, account, denom     string
			amountA, amountB, shares string
		)
		if err := rows.Scan(&ev.ID, &kind, &account, &denom, &amountA, &amountB, &shares, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan engine event: %w", err)
		}
		ev.Kind = types.EventKind(kind)
		ev.Account = types.AccountID(account)
		ev.Denom = types.Denom(denom)
		if ev.AmountA, err = utils.ParseAmount(amountA); err != nil {
			return nil, fmt.Errorf("corrupt amount_a in event %s: %w", ev.ID, err)
		}
		if ev.AmountB, err = utils.ParseAmount(amountB); err != nil {
			return nil, fmt.Errorf("corrupt amount_b in event %s: %w", ev.ID, err)
		}
		if ev.Shares, err = utils.ParseAmount(shares); err != nil {
			return nil, fmt.Errorf("corrupt shares in event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate engine events: %w", err)
	}
	return events, nil
}
