package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB opens the connection pool and verifies connectivity.
func InitDB(cfg DBConfig) error {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(10)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err := DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("dbname", cfg.DBName).Msg("Connected to PostgreSQL")
	return nil
}

// CloseDB closes the connection pool.
func CloseDB() {
	if DB == nil {
		return
	}
	if err := DB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS engine_events (
			id UUID PRIMARY KEY,
			kind VARCHAR(32) NOT NULL,
			account TEXT NOT NULL,
			denom TEXT NOT NULL DEFAULT '',
			amount_a NUMERIC(78, 0) NOT NULL,
			amount_b NUMERIC(78, 0) NOT NULL,
			shares NUMERIC(78, 0) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_engine_events_created_at ON engine_events(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_engine_events_kind_created_at ON engine_events(kind, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_engine_events_account ON engine_events(account);

		CREATE TABLE IF NOT EXISTS engine_snapshots (
			snapshot_id BIGSERIAL PRIMARY KEY,
			pool_summary JSONB NOT NULL,
			farm_summary JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_engine_snapshots_created_at ON engine_snapshots(created_at DESC);
	`
	if _, err := DB.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info().Msg("Database schema is up to date")
	return nil
}
