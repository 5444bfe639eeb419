package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS subkeys (
	root          TEXT NOT NULL,
	name          TEXT NOT NULL,
	default_value TEXT,
	PRIMARY KEY (root, name)
);
CREATE TABLE IF NOT EXISTS keyvalues (
	root  TEXT NOT NULL,
	name  TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (root, name)
);
`

// SQLiteStore is the durable Store implementation, backed by a local
// SQLite database. Other processes on the machine observe theme changes
// by reading the same database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if necessary) the settings database at path
// with pragmas suited for one writer and many readers.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create settings directory %q: %w", dir, err)
	}

	// _pragma=busy_timeout(5000): Wait up to 5 seconds if database is locked
	// _pragma=journal_mode(WAL): Enable Write-Ahead Logging for better concurrent access
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		if isCantOpenError(err) {
			return nil, diagnoseOpenError(path, err)
		}
		return nil, err
	}

	// Serialize writes; SQLite allows only one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		if isCantOpenError(err) {
			return nil, diagnoseOpenError(path, err)
		}
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize settings schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ListSubkeys(root string) ([]Subkey, error) {
	rows, err := s.db.Query(
		`SELECT name, default_value FROM subkeys WHERE root = ? ORDER BY name`, root)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate subkeys of %q: %w", root, err)
	}
	defer rows.Close()

	var subkeys []Subkey
	for rows.Next() {
		var name string
		var def sql.NullString
		if err := rows.Scan(&name, &def); err != nil {
			return nil, fmt.Errorf("failed to scan subkey of %q: %w", root, err)
		}
		subkeys = append(subkeys, Subkey{
			Name:       name,
			Default:    def.String,
			HasDefault: def.Valid,
		})
	}
	return subkeys, rows.Err()
}

func (s *SQLiteStore) GetValue(root, name string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM keyvalues WHERE root = ? AND name = ?`, root, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read value %q under %q: %w", name, root, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetValue(root, name, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO keyvalues (root, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (root, name) DO UPDATE SET value = excluded.value`,
		root, name, value)
	if err != nil {
		return fmt.Errorf("failed to write value %q under %q: %w", name, root, err)
	}
	return nil
}

func (s *SQLiteStore) CreateSubkey(root, name, defaultValue string) error {
	_, err := s.db.Exec(
		`INSERT INTO subkeys (root, name, default_value) VALUES (?, ?, ?)
		 ON CONFLICT (root, name) DO UPDATE SET default_value = excluded.default_value`,
		root, name, defaultValue)
	if err != nil {
		return fmt.Errorf("failed to create subkey %q under %q: %w", name, root, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteSubkey(root, name string) error {
	_, err := s.db.Exec(`DELETE FROM subkeys WHERE root = ? AND name = ?`, root, name)
	if err != nil {
		return fmt.Errorf("failed to delete subkey %q under %q: %w", name, root, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isCantOpenError checks if the error is a SQLite CANTOPEN error (code 14).
func isCantOpenError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CANTOPEN
	}
	return false
}

// diagnoseOpenError provides a more helpful error message when SQLite
// fails to open/create the settings database.
func diagnoseOpenError(path string, originalErr error) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cannot open settings database at %q: directory %q does not exist", path, dir)
		}
		return fmt.Errorf("cannot open settings database at %q: %w", path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("cannot open settings database at %q: %q is not a directory", path, dir)
	}

	return fmt.Errorf("cannot open settings database at %q: permission denied or file cannot be created in %q (original error: %v)", path, dir, originalErr)
}
