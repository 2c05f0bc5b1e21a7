/*
sqlite.go - SQLite persistence for configuration revisions and monitoring

PURPOSE:
  Keeps everything the service must remember between restarts: every
  admin edit of the rate table, document table and edition stamp, the
  uploaded ACM reference PDFs, and the last state of each watched document.

SCHEMA:
  config_revisions     Append-only history, one row per admin write.
                       The newest row of each kind is the live value.
  reference_documents  One row per kind (guide, table); re-upload replaces.
  monitor_state        One row per watched document key.

REVISION IDS:
  ULIDs are lexically sortable by creation time, so "latest" is simply the
  greatest id of a kind.

CONCURRENCY:
  SQLite allows one writer. Writes take the store mutex; reads share it.
  WAL mode lets readers proceed while a write is in progress.

USAGE:
  store, err := sqlite.New("acm.db")        // or ":memory:" in tests
  defer store.Close()
  rev, err := store.SaveRevision(ctx, sqlite.Revision{Kind: sqlite.RevisionRates, Body: body})

SEE ALSO:
  - registry/registry.go: Builds snapshots from the latest revisions
  - monitor/monitor.go: Reads and writes monitor_state
*/
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a second connection to ":memory:" would open a second, empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config_revisions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		body_json TEXT NOT NULL,
		author TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revisions_kind ON config_revisions(kind, id);

	CREATE TABLE IF NOT EXISTS reference_documents (
		kind TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		content BLOB NOT NULL,
		sha256 TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS monitor_state (
		key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		hash TEXT,
		last_checked TEXT,
		last_changed TEXT,
		last_error TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONFIGURATION REVISIONS
// =============================================================================

// RevisionKind names the configuration document a revision replaces.
type RevisionKind string

const (
	RevisionRates     RevisionKind = "rates"
	RevisionDocuments RevisionKind = "documents"
	RevisionEdition   RevisionKind = "edition"
)

// Revision is one stored configuration document.
type Revision struct {
	ID        string
	Kind      RevisionKind
	Body      string // canonical JSON
	Author    string
	CreatedAt time.Time
}

// SaveRevision appends a revision. ID and CreatedAt are assigned when
// empty; the stored revision is returned.
func (s *Store) SaveRevision(ctx context.Context, rev Revision) (Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev.ID == "" {
		rev.ID = ulid.Make().String()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO config_revisions (id, kind, body_json, author, created_at) VALUES (?, ?, ?, ?, ?)`,
		rev.ID, string(rev.Kind), rev.Body, nullString(rev.Author), rev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return Revision{}, fmt.Errorf("revision %s already exists", rev.ID)
		}
		return Revision{}, err
	}
	return rev, nil
}

// LatestRevision returns the newest revision of a kind, nil if none.
func (s *Store) LatestRevision(ctx context.Context, kind RevisionKind) (*Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, body_json, author, created_at FROM config_revisions
		 WHERE kind = ? ORDER BY id DESC LIMIT 1`,
		string(kind),
	)
	rev, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListRevisions returns revisions newest first. An empty kind lists all
// kinds; limit <= 0 means no limit.
func (s *Store) ListRevisions(ctx context.Context, kind RevisionKind, limit int) ([]Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, kind, body_json, author, created_at FROM config_revisions"
	var args []any
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(sc scanner) (Revision, error) {
	var rev Revision
	var kind, createdAt string
	var author sql.NullString
	if err := sc.Scan(&rev.ID, &kind, &rev.Body, &author, &createdAt); err != nil {
		return Revision{}, err
	}
	rev.Kind = RevisionKind(kind)
	rev.Author = author.String
	rev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return rev, nil
}

// =============================================================================
// REFERENCE DOCUMENTS
// =============================================================================

// ReferenceDocument is an uploaded ACM publication.
type ReferenceDocument struct {
	Kind       string // "guide" or "table"
	Filename   string
	Content    []byte
	SHA256     string
	UploadedAt time.Time
}

// SaveReferenceDocument stores doc, replacing any earlier upload of the
// same kind. The digest and upload time are filled in by the store.
func (s *Store) SaveReferenceDocument(ctx context.Context, doc ReferenceDocument) (ReferenceDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := sha256.Sum256(doc.Content)
	doc.SHA256 = hex.EncodeToString(sum[:])
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reference_documents (kind, filename, content, sha256, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			filename = excluded.filename,
			content = excluded.content,
			sha256 = excluded.sha256,
			uploaded_at = excluded.uploaded_at
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.Kind, doc.Filename, doc.Content, doc.SHA256, doc.UploadedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ReferenceDocument{}, err
	}
	return doc, nil
}

// GetReferenceDocument returns the upload of a kind, nil if none.
func (s *Store) GetReferenceDocument(ctx context.Context, kind string) (*ReferenceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc ReferenceDocument
	var uploadedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT kind, filename, content, sha256, uploaded_at FROM reference_documents WHERE kind = ?",
		kind,
	).Scan(&doc.Kind, &doc.Filename, &doc.Content, &doc.SHA256, &uploadedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc.UploadedAt, _ = time.Parse(time.RFC3339Nano, uploadedAt)
	return &doc, nil
}

// =============================================================================
// MONITOR STATE
// =============================================================================

// MonitorState is what the monitor last saw of one watched document.
type MonitorState struct {
	Key         string
	URL         string
	Hash        string
	LastChecked *time.Time
	LastChanged *time.Time
	LastError   string
}

// SaveMonitorState upserts the state of one watched document.
func (s *Store) SaveMonitorState(ctx context.Context, st MonitorState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO monitor_state (key, url, hash, last_checked, last_changed, last_error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			hash = excluded.hash,
			last_checked = excluded.last_checked,
			last_changed = excluded.last_changed,
			last_error = excluded.last_error
	`
	_, err := s.db.ExecContext(ctx, query,
		st.Key, st.URL, nullString(st.Hash),
		nullTime(st.LastChecked), nullTime(st.LastChanged), nullString(st.LastError),
	)
	return err
}

// GetMonitorState returns the state of a watched document, nil if it was
// never checked.
func (s *Store) GetMonitorState(ctx context.Context, key string) (*MonitorState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT key, url, hash, last_checked, last_changed, last_error FROM monitor_state WHERE key = ?",
		key,
	)
	st, err := scanMonitorState(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListMonitorStates returns the state of every watched document by key.
func (s *Store) ListMonitorStates(ctx context.Context) ([]MonitorState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT key, url, hash, last_checked, last_changed, last_error FROM monitor_state ORDER BY key",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []MonitorState
	for rows.Next() {
		st, err := scanMonitorState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

func scanMonitorState(sc scanner) (MonitorState, error) {
	var st MonitorState
	var hash, checked, changed, lastErr sql.NullString
	if err := sc.Scan(&st.Key, &st.URL, &hash, &checked, &changed, &lastErr); err != nil {
		return MonitorState{}, err
	}
	st.Hash = hash.String
	st.LastError = lastErr.String
	st.LastChecked = parseNullTime(checked)
	st.LastChanged = parseNullTime(changed)
	return st, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
