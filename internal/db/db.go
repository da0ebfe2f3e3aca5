package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// ErrWrongKey is returned when the key cannot decrypt an existing database.
var ErrWrongKey = errors.New("database key does not match")

type DB struct {
	*sql.DB
}

// Open opens (or creates) the encrypted tour book at dbPath.
func Open(dbPath, key string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf("%s?_key=%s", dbPath, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Background writers share one connection
	sqlDB.SetMaxOpenConns(1)

	// SQLCipher only reports a bad key on the first read
	var n int
	if err := sqlDB.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: %v", ErrWrongKey, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &DB{DB: sqlDB}, nil
}

// Wrap adapts an existing *sql.DB, e.g. a sqlmock connection in tests
func Wrap(sqlDB *sql.DB) *DB {
	return &DB{DB: sqlDB}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
