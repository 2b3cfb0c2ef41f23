package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DataFileName string = "data.db"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	dirMode = 0700
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")

	// Drivers lists the supported database drivers.
	Drivers = []string{DriverSQLite, DriverPostgres}
)

// DB is a database handle that knows its driver's placeholder style.
type DB struct {
	*sql.DB
	Driver string
}

// Init creates the schema for the given driver and data source. It is safe
// to call on an existing database.
func Init(driver, dsn string) error {
	if dsn == "" {
		return errors.New("data source not specified")
	}

	if driver == DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, dirMode); err != nil {
				return fmt.Errorf("failed to create database dir %s: %w", dir, err)
			}
		}
	}

	db, err := GetDB(driver, dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		return fmt.Errorf("failed to read the schema creation file: %w", err)
	}
	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("failed to create database schema in %s database: %w", driver, err)
	}
	slog.Debug("db schema ready", "driver", driver)

	return nil
}

// GetDB opens the database. For sqlite the dsn is the file path.
func GetDB(driver, dsn string) (*DB, error) {
	if !Contains(Drivers, driver) {
		return nil, fmt.Errorf("invalid driver: %s (permitted options: %v)", driver, Drivers)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	return &DB{DB: conn, Driver: driver}, nil
}

// rebind converts ? placeholders to $N for postgres.
func (db *DB) rebind(query string) string {
	if db.Driver != DriverPostgres {
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

// Contains checks for val in list
func Contains[T comparable](list []T, val T) bool {
	if list == nil {
		return false
	}
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
