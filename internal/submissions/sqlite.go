package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock overrides the time source for updated/saved timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens or creates the database at dbPath. Use ":memory:"
// for a throwaway store.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, wrap(ErrDatabaseOpenFailed, err, "")
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, wrap(ErrInitializeSchemaFailed, err, "")
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		business_name TEXT NOT NULL DEFAULT '',
		record BLOB NOT NULL,
		photos BLOB NOT NULL,
		revision INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_updated ON submissions(updated_at);
	CREATE TABLE IF NOT EXISTS revisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		saved_at INTEGER NOT NULL,
		record BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_revisions_submission ON revisions(submission_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the record of id and appends a revision.
func (s *SQLiteStore) Save(ctx context.Context, id string, rec content.Record) error {
	if id == "" {
		return ferrors.ValidationError("submission id is required").Build()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return wrap(ErrMarshalFailed, err, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().UnixMilli()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap(ErrSaveFailed, err, id)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO submissions (id, business_name, record, photos, revision, created_at, updated_at)
		VALUES (?, ?, ?, '[]', 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			business_name = excluded.business_name,
			record = excluded.record,
			revision = submissions.revision + 1,
			updated_at = excluded.updated_at`,
		id, rec.BusinessName, data, now, now,
	)
	if err != nil {
		return wrap(ErrSaveFailed, err, id)
	}
	if err := appendRevision(ctx, tx, id, data, now); err != nil {
		return wrap(ErrSaveFailed, err, id)
	}
	if err := tx.Commit(); err != nil {
		return wrap(ErrSaveFailed, err, id)
	}
	return nil
}

// Import creates a new submission including its photo pool.
func (s *SQLiteStore) Import(ctx context.Context, sub content.Submission) (string, error) {
	id := sub.ID
	if id == "" {
		id = uuid.NewString()
	}
	data, err := json.Marshal(sub.Record)
	if err != nil {
		return "", wrap(ErrMarshalFailed, err, id)
	}
	photos, err := json.Marshal(nonNil(sub.Photos))
	if err != nil {
		return "", wrap(ErrMarshalFailed, err, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().UnixMilli()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", wrap(ErrSaveFailed, err, id)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return "", wrap(ErrQueryFailed, err, id)
	}
	if exists > 0 {
		return "", ferrors.ConflictError("submission already exists").
			WithContext("submission_id", id).
			Build()
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO submissions (id, business_name, record, photos, revision, created_at, updated_at) VALUES (?, ?, ?, ?, 1, ?, ?)",
		id, sub.Record.BusinessName, data, photos, now, now,
	)
	if err != nil {
		return "", wrap(ErrSaveFailed, err, id)
	}
	if err := appendRevision(ctx, tx, id, data, now); err != nil {
		return "", wrap(ErrSaveFailed, err, id)
	}
	if err := tx.Commit(); err != nil {
		return "", wrap(ErrSaveFailed, err, id)
	}
	return id, nil
}

func appendRevision(ctx context.Context, tx *sql.Tx, id string, data []byte, at int64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO revisions (submission_id, number, saved_at, record) SELECT id, revision, ?, ? FROM submissions WHERE id = ?",
		at, data, id,
	)
	return err
}

// Load returns the current state of a submission.
func (s *SQLiteStore) Load(ctx context.Context, id string) (content.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		data, photos []byte
		updated      int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT record, photos, updated_at FROM submissions WHERE id = ?", id,
	).Scan(&data, &photos, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Submission{}, ferrors.NotFoundError("submission not found").
			WithContext("submission_id", id).
			Build()
	}
	if err != nil {
		return content.Submission{}, wrap(ErrQueryFailed, err, id)
	}

	sub := content.Submission{ID: id, UpdatedAt: time.UnixMilli(updated).UTC()}
	if err := json.Unmarshal(data, &sub.Record); err != nil {
		return content.Submission{}, wrap(ErrMarshalFailed, err, id)
	}
	if err := json.Unmarshal(photos, &sub.Photos); err != nil {
		return content.Submission{}, wrap(ErrMarshalFailed, err, id)
	}
	return sub, nil
}

// List returns all submissions, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, business_name, revision, updated_at FROM submissions ORDER BY updated_at DESC, id",
	)
	if err != nil {
		return nil, wrap(ErrQueryFailed, err, "")
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.BusinessName, &sum.Revision, &updated); err != nil {
			return nil, wrap(ErrQueryFailed, err, "")
		}
		sum.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(ErrQueryFailed, err, "")
	}
	return out, nil
}

// Revisions returns the saved history of id, oldest first.
func (s *SQLiteStore) Revisions(ctx context.Context, id string) ([]Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT number, saved_at, record FROM revisions WHERE submission_id = ? ORDER BY id", id,
	)
	if err != nil {
		return nil, wrap(ErrQueryFailed, err, id)
	}
	defer func() { _ = rows.Close() }()

	var out []Revision
	for rows.Next() {
		var rev Revision
		var saved int64
		var data []byte
		if err := rows.Scan(&rev.Number, &saved, &data); err != nil {
			return nil, wrap(ErrQueryFailed, err, id)
		}
		if err := json.Unmarshal(data, &rev.Record); err != nil {
			return nil, wrap(ErrMarshalFailed, err, id)
		}
		rev.SavedAt = time.UnixMilli(saved).UTC()
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(ErrQueryFailed, err, id)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
