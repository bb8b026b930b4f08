// Package data persists prediction history in sqlite or postgres.
package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default sqlite history file name.
	DataFileName = "history.db"

	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

var (
	//go:embed sql/*
	f embed.FS

	// ErrNotInitialized is returned when a store method is called on a nil
	// or closed store.
	ErrNotInitialized = errors.New("database not initialized")
)

// Store records predictions.
type Store struct {
	db     *sql.DB
	driver string
}

// Driver returns the database/sql driver name for dsn: postgres URLs select
// lib/pq, anything else is treated as a sqlite file path.
func Driver(dsn string) string {
	low := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(low, "postgres://") || strings.HasPrefix(low, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

// Open connects to dsn and creates the schema when missing.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("dsn not specified")
	}

	s := &Store{driver: Driver(dsn)}

	db, err := sql.Open(s.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", s.driver, err)
	}
	if s.driver == driverSQLite {
		// sqlite serializes writers
		db.SetMaxOpenConns(1)
	}
	s.db = db

	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	b, err := f.ReadFile("sql/" + s.driver + ".sql")
	if err != nil {
		return fmt.Errorf("reading %s schema: %w", s.driver, err)
	}
	if _, err := s.db.Exec(string(b)); err != nil {
		return fmt.Errorf("creating %s schema: %w", s.driver, err)
	}
	slog.Debug("history schema ready", "driver", s.driver)
	return nil
}

// Driver returns the driver the store was opened with.
func (s *Store) Driver() string {
	if s == nil {
		return ""
	}
	return s.driver
}

// SchemaVersion returns the recorded schema version.
func (s *Store) SchemaVersion() (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotInitialized
	}
	var v int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
