package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresConnection opens a connection pool to Postgres and verifies it
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the users and follows tables if they do not exist.
// Uniqueness of username and email and the one-edge-per-ordered-pair rule
// live here as constraints so concurrent writers cannot violate them.
func EnsureSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		username        TEXT NOT NULL,
		email           TEXT NOT NULL,
		full_name       TEXT NOT NULL DEFAULT '',
		hashed_password TEXT NOT NULL,
		avatar          TEXT NOT NULL DEFAULT '',
		bio             TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	);

	CREATE TABLE IF NOT EXISTS follows (
		follower_id  TEXT NOT NULL REFERENCES users (id),
		following_id TEXT NOT NULL REFERENCES users (id),
		PRIMARY KEY (follower_id, following_id)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}
