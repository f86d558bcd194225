package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ChangeChannel recebe um NOTIFY a cada insert/update/delete em prospects.
const ChangeChannel = "prospects_changed"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	nombre TEXT NOT NULL,
	apellido TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL CHECK (role IN ('admin', 'agente', 'auditor')),
	email TEXT
);

CREATE TABLE IF NOT EXISTS prospects (
	id TEXT PRIMARY KEY,
	business_name TEXT NOT NULL,
	contact_person TEXT NOT NULL,
	agent_id TEXT NOT NULL,
	phone TEXT,
	email TEXT,
	state TEXT NOT NULL,
	logo_url TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_prospects_state ON prospects(state);

CREATE OR REPLACE FUNCTION notify_prospects_changed() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + ChangeChannel + `', TG_OP);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS prospects_changed ON prospects;
CREATE TRIGGER prospects_changed
	AFTER INSERT OR UPDATE OR DELETE ON prospects
	FOR EACH STATEMENT EXECUTE FUNCTION notify_prospects_changed();
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	nombre TEXT NOT NULL,
	apellido TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL CHECK (role IN ('admin', 'agente', 'auditor')),
	email TEXT
);

CREATE TABLE IF NOT EXISTS prospects (
	id TEXT PRIMARY KEY,
	business_name TEXT NOT NULL,
	contact_person TEXT NOT NULL,
	agent_id TEXT NOT NULL,
	phone TEXT,
	email TEXT,
	state TEXT NOT NULL,
	logo_url TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_prospects_state ON prospects(state);
`

// MigratePostgres creates the tables and the change trigger. Safe to re-run.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate postgres schema: %w", err)
	}
	return nil
}
