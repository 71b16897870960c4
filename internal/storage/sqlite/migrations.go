package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. These run on
// startup to ensure tables exist.
//
// Runs persist the full documents (receipt, allocation, settlement, trace)
// as JSON alongside a few indexed columns; run_entries mirrors the owed
// amounts so balances stay queryable without unpacking documents.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL REFERENCES users(id),
    currency TEXT NOT NULL,
    grand_total INTEGER NOT NULL,
    participant_count INTEGER NOT NULL,
    valid INTEGER NOT NULL,
    receipt_json TEXT NOT NULL,
    allocation_json TEXT NOT NULL,
    settlement_json TEXT NOT NULL,
    trace_json TEXT NOT NULL,
    verdict_json TEXT NOT NULL,
    warnings_json TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_entries (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL,
    owed INTEGER NOT NULL,
    PRIMARY KEY (run_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_owner ON runs(owner_id, created_at DESC);
`

// runMigrations applies the schema to the database.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
