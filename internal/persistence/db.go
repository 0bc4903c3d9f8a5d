// Package persistence is an optional sqlite-backed sink for run history:
// one row per simulated day, per region, for later inspection. Adapted
// from the teacher's access pattern (sqlx over modernc.org/sqlite, WAL
// journal mode, idempotent forward migrations).
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/epirust-go/epirust/internal/travel"
)

// DB wraps a sqlite connection dedicated to run-history bookkeeping.
type DB struct {
	conn *sqlx.DB
}

// Open opens (creating if absent) the sqlite file at path and runs
// migrations. WAL mode and a busy timeout match the teacher's DSN so
// concurrent readers (e.g. an inspection CLI) don't collide with the
// region driver's writes.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s: %w", path, err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persistence: migrate: %w", err)
	}
	return db, nil
}

func (db *DB) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	engine_id TEXT PRIMARY KEY,
	region_id TEXT NOT NULL,
	started_at TEXT NOT NULL,
	grid_size INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_stats (
	engine_id TEXT NOT NULL,
	hour INTEGER NOT NULL,
	susceptible INTEGER NOT NULL,
	exposed INTEGER NOT NULL,
	infected INTEGER NOT NULL,
	hospitalized INTEGER NOT NULL,
	recovered INTEGER NOT NULL,
	deceased INTEGER NOT NULL,
	PRIMARY KEY (engine_id, hour)
);

CREATE INDEX IF NOT EXISTS idx_run_stats_engine ON run_stats(engine_id);
`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	migrations := []string{
		`ALTER TABLE runs ADD COLUMN locked_down INTEGER NOT NULL DEFAULT 0`,
	}
	for _, m := range migrations {
		db.conn.Exec(m) // Ignore errors — column may already exist.
	}
	return nil
}

// RegisterRun inserts the run's metadata row, ignoring a duplicate on
// restart of the same engine id.
func (db *DB) RegisterRun(engineID, regionID string, gridSize int, startedAt string) error {
	_, err := db.conn.Exec(
		`INSERT OR IGNORE INTO runs (engine_id, region_id, started_at, grid_size) VALUES (?, ?, ?, ?)`,
		engineID, regionID, startedAt, gridSize)
	return err
}

// SaveStats writes one day's Counts snapshot.
func (db *DB) SaveStats(engineID string, hour int, counts travel.Counts) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO run_stats
			(engine_id, hour, susceptible, exposed, infected, hospitalized, recovered, deceased)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		engineID, hour, counts.Susceptible, counts.Exposed, counts.Infected,
		counts.Hospitalized, counts.Recovered, counts.Deceased)
	return err
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
