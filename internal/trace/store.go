package trace

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/flamegrid/flamegrid/internal/logging"
)

// Load opens a capture file, choosing the loader by extension: .db/.sqlite
// files go through the SQLite store, everything else is treated as JSON.
func Load(ctx context.Context, path string) (*Trace, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	default:
		return LoadJSON(path)
	}
}

// LoadSQLite reads a capture database produced by an instrumentation agent.
// Schema: events(id, parent_id, name, category, start_ns, end_ns, self_ns),
// with a NULL/empty parent_id marking root events.
func LoadSQLite(ctx context.Context, path string) (*Trace, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to capture database: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, COALESCE(parent_id, ''), name, category,
		       start_ns, COALESCE(end_ns, 0), COALESCE(self_ns, 0)
		FROM events
		ORDER BY start_ns ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*Event, 1024)
	parentOf := make(map[string]string, 1024)
	order := make([]string, 0, 1024)

	for rows.Next() {
		var (
			ev       Event
			parentID string
		)
		if err := rows.Scan(&ev.ID, &parentID, &ev.Name, &ev.Category, &ev.Start, &ev.End, &ev.SelfTime); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		byID[ev.ID] = &ev
		parentOf[ev.ID] = parentID
		order = append(order, ev.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	t := &Trace{Name: filepath.Base(path)}
	for _, id := range order {
		ev := byID[id]
		parent, ok := byID[parentOf[id]]
		if !ok {
			// Orphaned rows degrade to roots rather than being dropped.
			t.Roots = append(t.Roots, ev)
			continue
		}
		parent.Children = append(parent.Children, ev)
	}
	finalize(t)

	logger := logging.Component("trace")
	logger.Info().
		Str("trace_id", t.ID).
		Str("path", path).
		Int("events", t.EventCount).
		Int("max_depth", t.MaxDepth).
		Msg("loaded SQLite trace")

	return t, nil
}
