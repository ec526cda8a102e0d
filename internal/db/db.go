package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open opens the console's local state database. The default is an embedded
// sqlite file; mysql and pgx DSNs are accepted for deployments that keep
// console state on a shared server.
func Open(driver, path, dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	switch driver {
	case "", "sqlite":
		return openSQLite(path, maxOpen, maxIdle, maxLifetime)
	case "mysql", "pgx", "postgres":
		if driver == "postgres" {
			driver = "pgx"
		}
		return openDSN(driver, dsn, maxOpen, maxIdle, maxLifetime)
	default:
		return nil, fmt.Errorf("unsupported state db driver %q", driver)
	}
}

func openSQLite(path string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	return openDSN("sqlite", dsn, maxOpen, maxIdle, maxLifetime)
}

func openDSN(driver, dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
