package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init opens the pack database. The sqlite driver is the default; the
// connection string is then a file path whose directory is created on
// first run. Postgres works with driver "pgx" and a DSN.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(connection), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	database, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Writes are rare (one insert per generated pack), so a small pool
	// is plenty and keeps modernc sqlite's single writer happy.
	database.SetMaxOpenConns(10)
	database.SetMaxIdleConns(2)
	database.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected", "driver", driver)
	return database, nil
}

func Close(database *sqlx.DB) error {
	if database != nil {
		return database.Close()
	}
	return nil
}
