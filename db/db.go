package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Config struct {
	Dsn          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

// Open creates the database file (and its directory) if needed, applies
// the schema and verifies the connection.
func Open(cfg Config, schema string) (*sql.DB, error) {
	dbDir := filepath.Dir(cfg.Dsn)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	database, err := sql.Open("sqlite3", cfg.Dsn)
	if err != nil {
		return nil, err
	}

	if err := initializeSchema(database, schema); err != nil {
		database.Close()
		return nil, err
	}

	database.SetMaxOpenConns(cfg.MaxOpenConns)
	database.SetMaxIdleConns(cfg.MaxIdleConns)

	duration, err := time.ParseDuration(cfg.MaxIdleTime)
	if err != nil {
		database.Close()
		return nil, err
	}
	database.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

func initializeSchema(database *sql.DB, schema string) error {
	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization SQL: %w", err)
	}
	return nil
}
