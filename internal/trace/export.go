package trace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flamegrid/flamegrid/internal/logging"
)

const (
	exportRetryAttempts = 3
	exportRetryBackoff  = 50 * time.Millisecond
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	id        TEXT PRIMARY KEY,
	parent_id TEXT,
	name      TEXT NOT NULL,
	category  TEXT NOT NULL,
	start_ns  INTEGER NOT NULL,
	end_ns    INTEGER,
	self_ns   INTEGER
);
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_ns);
CREATE INDEX IF NOT EXISTS idx_events_parent ON events(parent_id);
`

// SaveSQLite writes a trace to a capture database in the same schema
// LoadSQLite reads. The whole tree goes in one transaction; busy errors from
// a concurrently open database are retried with backoff.
func SaveSQLite(ctx context.Context, path string, t *Trace) error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open capture database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, eventsSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	err = withRetry(ctx, exportRetryAttempts, exportRetryBackoff, func() error {
		return inTransaction(ctx, db, func(tx *sql.Tx) error {
			return insertEvents(ctx, tx, t)
		})
	})
	if err != nil {
		return err
	}

	logger := logging.Component("trace")
	logger.Info().
		Str("trace_id", t.ID).
		Str("path", path).
		Int("events", t.EventCount).
		Msg("exported SQLite trace")

	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, t *Trace) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO events (id, parent_id, name, category, start_ns, end_ns, self_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	type frame struct {
		ev     *Event
		parent string
	}
	stack := make([]frame, 0, 64)
	for _, r := range t.Roots {
		stack = append(stack, frame{ev: r})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var parent any
		if f.parent != "" {
			parent = f.parent
		}
		ev := f.ev
		if _, err := stmt.ExecContext(ctx, ev.ID, parent, ev.Name, ev.Category, ev.Start, ev.End, ev.SelfTime); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
		}

		for _, c := range ev.Children {
			stack = append(stack, frame{ev: c, parent: ev.ID})
		}
	}
	return nil
}

func inTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func withRetry(ctx context.Context, maxAttempts int, baseBackoff time.Duration, fn func() error) error {
	attempt := 0
	backoff := baseBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}

		attempt++
		if !isBusyError(err) || attempt >= maxAttempts {
			return err
		}

		if err := sleepWithContext(ctx, backoff); err != nil {
			return err
		}

		backoff *= 2
	}
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "database is locked") ||
		strings.Contains(message, "database is busy") ||
		strings.Contains(message, "sqlite_busy")
}

func sleepWithContext(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
