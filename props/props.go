package props

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Well-known property keys.
const (
	// KeyRootFolderID is the cached Drive id of the toolkit's root folder.
	KeyRootFolderID = "openBIDFolderId"
	// KeySecretKey is the stored generation-API credential.
	KeySecretKey = "OPENAI_SECRET_KEY"
)

// Store is the per-document key-value surface. A missing key returns a
// NotFound error from Get.
type Store interface {
	Get(ctx context.Context, docID, key string) (string, error)
	Set(ctx context.Context, docID, key, value string) error
	Delete(ctx context.Context, docID, key string) error
}

// SQLiteStore persists properties in an embedded sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open initializes or connects to the properties database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS properties (
		doc_id TEXT NOT NULL,
		key    TEXT NOT NULL,
		value  TEXT NOT NULL,
		PRIMARY KEY (doc_id, key)
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, docID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM properties WHERE doc_id = ? AND key = ?", docID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", status.Errorf(codes.NotFound, "property %q not set for document %s", key, docID)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, docID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO properties (doc_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (doc_id, key) DO UPDATE SET value = excluded.value`,
		docID, key, value)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, docID, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM properties WHERE doc_id = ? AND key = ?", docID, key)
	return err
}
