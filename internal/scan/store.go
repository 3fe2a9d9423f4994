package scan

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Entry kinds stored in the entries table.
const (
	entryKindClass    = "class"
	entryKindFunction = "function"
	entryKindImport   = "import"
	entryKindVariable = "variable"
)

const filesTable = `
CREATE TABLE files (
    file_path TEXT PRIMARY KEY,           -- relative path from scan root
    file_hash TEXT NOT NULL,              -- SHA-256 of file contents
    size_bytes INTEGER NOT NULL DEFAULT 0,
    line_count INTEGER NOT NULL DEFAULT 0,
    parse_error TEXT NOT NULL DEFAULT '', -- non-empty when the file failed to parse
    last_modified TEXT NOT NULL,          -- ISO 8601 filesystem mtime
    scanned_at TEXT NOT NULL              -- ISO 8601 time of last scan
)`

const entriesTable = `
CREATE TABLE entries (
    entry_id TEXT PRIMARY KEY,            -- UUID
    file_path TEXT NOT NULL,
    kind TEXT NOT NULL,                   -- class | function | import | variable
    name TEXT NOT NULL,
    line INTEGER NOT NULL,
    detail TEXT NOT NULL DEFAULT '{}',    -- JSON payload of the full entry
    FOREIGN KEY (file_path) REFERENCES files(file_path) ON DELETE CASCADE
)`

const scanMetadataTable = `
CREATE TABLE scan_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

var schemaIndexes = []string{
	`CREATE INDEX idx_entries_file_path ON entries(file_path)`,
	`CREATE INDEX idx_entries_kind ON entries(kind)`,
	`CREATE INDEX idx_entries_name ON entries(name)`,
}

// FileRecord is one row of the files table.
type FileRecord struct {
	FilePath     string // relative to the scan root, forward slashes
	FileHash     string
	SizeBytes    int64
	LineCount    int
	ParseError   string // empty when the file parsed cleanly
	LastModified time.Time
	ScannedAt    time.Time
}

// EntryRecord is one structural entry extracted from a file.
type EntryRecord struct {
	ID       string
	FilePath string
	Kind     string
	Name     string
	Line     int
	Detail   string // JSON document with the full entry payload
}

// StoreStats summarizes what the store currently holds.
type StoreStats struct {
	Files     int
	Classes   int
	Functions int
	Imports   int
	Variables int
}

// Store persists scan results to SQLite. All writes for a single file happen
// in one transaction so readers never observe a file without its entries.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the scan database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	version, err := getSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version == "0" {
		if err := createSchema(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// getSchemaVersion returns the stored schema version, or "0" for a fresh
// database where the metadata table does not exist yet.
func getSchemaVersion(db *sql.DB) (string, error) {
	var version string
	err := db.QueryRow(`SELECT value FROM scan_metadata WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		// Table might not exist yet
		return "0", nil
	}
	return version, nil
}

// createSchema creates all tables and indexes in a single transaction.
func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", filesTable},
		{"entries", entriesTable},
		{"scan_metadata", scanMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT INTO scan_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)`,
		schemaVersion, now,
	); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	return nil
}

// WriteFile replaces the stored record and entries for a single file.
func (s *Store) WriteFile(rec *FileRecord, entries []EntryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = sq.Insert("files").
		Columns("file_path", "file_hash", "size_bytes", "line_count", "parse_error", "last_modified", "scanned_at").
		Values(
			rec.FilePath,
			rec.FileHash,
			rec.SizeBytes,
			rec.LineCount,
			rec.ParseError,
			rec.LastModified.Format(time.RFC3339),
			rec.ScannedAt.Format(time.RFC3339),
		).
		Options("OR REPLACE").
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write file record for %s: %w", rec.FilePath, err)
	}

	// Remove stale entries before inserting the fresh extraction
	_, err = sq.Delete("entries").
		Where(sq.Eq{"file_path": rec.FilePath}).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete old entries for %s: %w", rec.FilePath, err)
	}

	for _, entry := range entries {
		_, err = sq.Insert("entries").
			Columns("entry_id", "file_path", "kind", "name", "line", "detail").
			Values(entry.ID, entry.FilePath, entry.Kind, entry.Name, entry.Line, entry.Detail).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert entry %s for %s: %w", entry.Name, rec.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit file write: %w", err)
	}

	return nil
}

// DeleteFile removes a file record; its entries go with it via ON DELETE CASCADE.
func (s *Store) DeleteFile(relPath string) error {
	_, err := sq.Delete("files").
		Where(sq.Eq{"file_path": relPath}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", relPath, err)
	}
	return nil
}

// File retrieves a single file record. Returns (nil, nil) when the file is
// not stored.
func (s *Store) File(relPath string) (*FileRecord, error) {
	rec := &FileRecord{}
	var lastModified, scannedAt string

	err := sq.Select("file_path", "file_hash", "size_bytes", "line_count", "parse_error", "last_modified", "scanned_at").
		From("files").
		Where(sq.Eq{"file_path": relPath}).
		RunWith(s.db).
		QueryRow().
		Scan(
			&rec.FilePath,
			&rec.FileHash,
			&rec.SizeBytes,
			&rec.LineCount,
			&rec.ParseError,
			&lastModified,
			&scannedAt,
		)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file record for %s: %w", relPath, err)
	}

	rec.LastModified, _ = time.Parse(time.RFC3339, lastModified)
	rec.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)

	return rec, nil
}

// Files retrieves all stored file records keyed by relative path.
func (s *Store) Files() (map[string]*FileRecord, error) {
	rows, err := sq.Select("file_path", "file_hash", "size_bytes", "line_count", "parse_error", "last_modified", "scanned_at").
		From("files").
		OrderBy("file_path").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*FileRecord)
	for rows.Next() {
		rec := &FileRecord{}
		var lastModified, scannedAt string

		err := rows.Scan(
			&rec.FilePath,
			&rec.FileHash,
			&rec.SizeBytes,
			&rec.LineCount,
			&rec.ParseError,
			&lastModified,
			&scannedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file record: %w", err)
		}

		rec.LastModified, _ = time.Parse(time.RFC3339, lastModified)
		rec.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)

		records[rec.FilePath] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file records: %w", err)
	}

	return records, nil
}

// Entries retrieves the stored entries for a file in line order.
func (s *Store) Entries(relPath string) ([]EntryRecord, error) {
	rows, err := sq.Select("entry_id", "file_path", "kind", "name", "line", "detail").
		From("entries").
		Where(sq.Eq{"file_path": relPath}).
		OrderBy("line", "entry_id").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for %s: %w", relPath, err)
	}
	defer rows.Close()

	var entries []EntryRecord
	for rows.Next() {
		var entry EntryRecord
		if err := rows.Scan(&entry.ID, &entry.FilePath, &entry.Kind, &entry.Name, &entry.Line, &entry.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// Stats counts stored files and entries by kind.
func (s *Store) Stats() (*StoreStats, error) {
	stats := &StoreStats{}

	err := sq.Select("COUNT(*)").
		From("files").
		RunWith(s.db).
		QueryRow().
		Scan(&stats.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	rows, err := sq.Select("kind", "COUNT(*)").
		From("entries").
		GroupBy("kind").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan entry count: %w", err)
		}
		switch kind {
		case entryKindClass:
			stats.Classes = count
		case entryKindFunction:
			stats.Functions = count
		case entryKindImport:
			stats.Imports = count
		case entryKindVariable:
			stats.Variables = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry counts: %w", err)
	}

	return stats, nil
}

// SetMetadata upserts a key in the scan_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := sq.Insert("scan_metadata").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC().Format(time.RFC3339)).
		Options("OR REPLACE").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}

// Metadata returns the value for a metadata key, or "" when absent.
func (s *Store) Metadata(key string) (string, error) {
	var value string
	err := sq.Select("value").
		From("scan_metadata").
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		QueryRow().
		Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read metadata %s: %w", key, err)
	}
	return value, nil
}
