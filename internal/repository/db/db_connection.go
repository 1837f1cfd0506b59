package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One writer: relearn batches and audit inserts serialize on this connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaEquipment = `
CREATE TABLE IF NOT EXISTS equipment (
    equipment_id TEXT PRIMARY KEY,
    equipment_name TEXT NOT NULL,
    profile_base TEXT NOT NULL,
    power_kw REAL NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

const schemaAudits = `
CREATE TABLE IF NOT EXISTS audits (
    audit_uuid TEXT PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    created_by TEXT,
    equipment_id TEXT NOT NULL,
    materiel_type TEXT,
    materiel_name TEXT,
    scenario_code TEXT NOT NULL,
    index_start REAL NOT NULL,
    index_end REAL NOT NULL,
    power_kw REAL NOT NULL,
    fuel_declared_l REAL NOT NULL,
    estimated_min REAL NOT NULL,
    estimated_typ REAL NOT NULL,
    estimated_max REAL NOT NULL,
    uncertainty_pct REAL NOT NULL,
    deviation_pct REAL NOT NULL,
    z_score REAL NOT NULL,
    verdict TEXT NOT NULL,
    confidence_pct INTEGER NOT NULL,
    load_source TEXT
);
`

const schemaAuditsIndex = `
CREATE INDEX IF NOT EXISTS idx_audits_equipment_time ON audits (equipment_id, timestamp DESC);
`

const schemaOverrides = `
CREATE TABLE IF NOT EXISTS equipment_load_overrides (
    equipment_id TEXT NOT NULL,
    scenario_code TEXT NOT NULL,
    load_min REAL NOT NULL,
    load_typ REAL NOT NULL,
    load_max REAL NOT NULL,
    learned_from_n_samples INTEGER NOT NULL,
    confidence_score REAL NOT NULL,
    last_updated TIMESTAMP NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (equipment_id, scenario_code)
);
`

// EnsureSchema creates missing tables in one transaction.
func EnsureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaEquipment,
		schemaAudits,
		schemaAuditsIndex,
		schemaOverrides,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
