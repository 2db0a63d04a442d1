package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// HasState reports whether any state field has been persisted yet.
func (db *DB) HasState(ctx context.Context) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM state").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count state rows: %w", err)
	}
	return count > 0, nil
}

// ReadState loads the persisted state. Missing or undecodable fields fall back
// to their defaults; only I/O failures are returned.
func (db *DB) ReadState(ctx context.Context) (models.State, error) {
	state := models.DefaultState()

	rows, err := db.QueryContext(ctx, "SELECT key, value FROM state")
	if err != nil {
		return state, fmt.Errorf("failed to query state: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.DefaultState(), fmt.Errorf("failed to scan state row: %w", err)
		}
		if err := decodeField(&state, key, []byte(value)); err != nil {
			logger.Warn("ignoring undecodable state field", "key", key, "error", err)
		}
	}

	if err := rows.Err(); err != nil {
		return models.DefaultState(), fmt.Errorf("failed to iterate state: %w", err)
	}

	return state, nil
}

// WriteState replaces every field set in update within one transaction.
func (db *DB) WriteState(ctx context.Context, update models.StateUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	values, err := encodeUpdate(update)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin state write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := db.upsert(ctx, tx, values); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state write: %w", err)
	}
	return nil
}

// ResetState restores every field to its default and sets lastTickAt to now,
// so the next reconciliation computes a zero delta.
func (db *DB) ResetState(ctx context.Context, now time.Time) error {
	defaults := models.DefaultState()
	values, err := encodeUpdate(models.StateUpdate{
		CumulativeMs:     &defaults.CumulativeMs,
		PerHostMs:        defaults.PerHostMs,
		CurrentSession:   &defaults.CurrentSession,
		LastTickAt:       &now,
		ReminderStepMs:   &defaults.ReminderStepMs,
		LastReminderAtMs: &defaults.LastReminderAtMs,
	})
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin state reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM state"); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}

	if err := db.upsert(ctx, tx, values); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state reset: %w", err)
	}

	// The reset itself is durable; reclaiming the freed pages is best effort.
	if err := db.Vacuum(ctx); err != nil {
		logger.Warn("vacuum after reset failed", "error", err)
	}
	return nil
}

func (db *DB) upsert(ctx context.Context, tx *sql.Tx, values map[string]string) error {
	updatedAt := db.now().UTC().Format("2006-01-02 15:04:05")

	// Iterate in key order so writes are deterministic.
	for _, key := range stateKeys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, sqlUpsertState, key, value, updatedAt); err != nil {
			return fmt.Errorf("failed to write state field %s: %w", key, err)
		}
	}
	return nil
}

// encodeUpdate serializes the set fields of update keyed by state key.
func encodeUpdate(u models.StateUpdate) (map[string]string, error) {
	values := make(map[string]string, len(stateKeys))

	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode state field %s: %w", key, err)
		}
		values[key] = string(data)
		return nil
	}

	if u.CumulativeMs != nil {
		if err := put(keyCumulativeMs, *u.CumulativeMs); err != nil {
			return nil, err
		}
	}
	if u.PerHostMs != nil {
		if err := put(keyPerHostMs, u.PerHostMs); err != nil {
			return nil, err
		}
	}
	if u.CurrentSession != nil {
		if err := put(keyCurrentSession, *u.CurrentSession); err != nil {
			return nil, err
		}
	}
	if u.LastTickAt != nil {
		var ms *int64
		if !u.LastTickAt.IsZero() {
			v := u.LastTickAt.UnixMilli()
			ms = &v
		}
		if err := put(keyLastTickAt, ms); err != nil {
			return nil, err
		}
	}
	if u.ReminderStepMs != nil {
		if err := put(keyReminderStepMs, *u.ReminderStepMs); err != nil {
			return nil, err
		}
	}
	if u.LastReminderAtMs != nil {
		if err := put(keyLastReminderAtMs, *u.LastReminderAtMs); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// decodeField applies one persisted field onto state.
func decodeField(state *models.State, key string, value []byte) error {
	switch key {
	case keyCumulativeMs:
		return json.Unmarshal(value, &state.CumulativeMs)
	case keyPerHostMs:
		hosts := map[string]int64{}
		if err := json.Unmarshal(value, &hosts); err != nil {
			return err
		}
		if hosts == nil {
			hosts = map[string]int64{}
		}
		state.PerHostMs = hosts
	case keyCurrentSession:
		var session models.Session
		if err := json.Unmarshal(value, &session); err != nil {
			return err
		}
		if !session.Active {
			session = models.IdleSession()
		}
		state.CurrentSession = session
	case keyLastTickAt:
		var ms *int64
		if err := json.Unmarshal(value, &ms); err != nil {
			return err
		}
		state.LastTickAt = time.Time{}
		if ms != nil {
			state.LastTickAt = time.UnixMilli(*ms)
		}
	case keyReminderStepMs:
		var step int64
		if err := json.Unmarshal(value, &step); err != nil {
			return err
		}
		if step > 0 {
			state.ReminderStepMs = step
		}
	case keyLastReminderAtMs:
		return json.Unmarshal(value, &state.LastReminderAtMs)
	}
	return nil
}
