package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cdoc/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// DefaultSearchLimit caps SearchDecls when no limit is given
const DefaultSearchLimit = 50

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// One connection: a single writer, and :memory: databases stay shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Run operations

// SaveRun stores run and its file records in one transaction
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *Run, records []*types.FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveRunWithQuerier(ctx, tx, run, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// saveRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) saveRunWithQuerier(ctx context.Context, q querier, run *Run, records []*types.FileRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO runs (id, format, sources, file_count, decl_count, comment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Format, string(sources), run.FileCount, run.DeclCount, run.CommentCount, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	for _, rec := range records {
		if err := s.insertFileRecord(ctx, q, run.ID, rec); err != nil {
			return fmt.Errorf("failed to store %s: %w", rec.Filename, err)
		}
	}
	return nil
}

func (s *SQLiteStorage) insertFileRecord(ctx context.Context, q querier, runID string, rec *types.FileRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, "INSERT INTO files (run_id, filename) VALUES (?, ?)", runID, rec.Filename)
	if err != nil {
		return err
	}
	fileID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for i, d := range rec.Decls {
		var commentJSON sql.NullString
		text := ""
		if d.Comment != nil {
			b, err := json.Marshal(d.Comment)
			if err != nil {
				return err
			}
			commentJSON = sql.NullString{String: string(b), Valid: true}
			text = d.Comment.PlainText()
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO decls (file_id, ordinal, qualified_name, comment_json, comment_text)
			VALUES (?, ?, ?, ?, ?)
		`, fileID, i, d.QualifiedName, commentJSON, text)
		if err != nil {
			return err
		}
	}

	for i := range rec.UnattachedComments {
		b, err := json.Marshal(&rec.UnattachedComments[i])
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx,
			"INSERT INTO unattached_comments (file_id, ordinal, comment_json) VALUES (?, ?, ?)",
			fileID, i, string(b))
		if err != nil {
			return err
		}
	}
	return nil
}

const runColumns = "id, format, sources, file_count, decl_count, comment_count, created_at"

func scanRun(row interface{ Scan(...interface{}) error }) (*Run, error) {
	var (
		run     Run
		sources string
	)
	err := row.Scan(&run.ID, &run.Format, &sources, &run.FileCount, &run.DeclCount, &run.CommentCount, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources of run %s: %w", run.ID, err)
	}
	return &run, nil
}

// getRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getRunWithQuerier(ctx context.Context, q querier, runID string) (*Run, error) {
	run, err := scanRun(q.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", runID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return run, err
}

func (s *SQLiteStorage) GetRun(ctx context.Context, runID string) (*Run, error) {
	return s.getRunWithQuerier(ctx, s.querier(), runID)
}

// latestRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) latestRunWithQuerier(ctx context.Context, q querier) (*Run, error) {
	run, err := scanRun(q.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY seq DESC LIMIT 1"))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return run, err
}

func (s *SQLiteStorage) LatestRun(ctx context.Context) (*Run, error) {
	return s.latestRunWithQuerier(ctx, s.querier())
}

// listRunsWithQuerier returns runs newest first. A limit of zero or less
// returns every run.
func (s *SQLiteStorage) listRunsWithQuerier(ctx context.Context, q querier, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := q.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY seq DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	return s.listRunsWithQuerier(ctx, s.querier(), limit)
}

// File operations

// listFilesWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listFilesWithQuerier(ctx context.Context, q querier, runID string) ([]string, error) {
	if _, err := s.getRunWithQuerier(ctx, q, runID); err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, "SELECT filename FROM files WHERE run_id = ? ORDER BY filename", runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]string, 0)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListFiles(ctx context.Context, runID string) ([]string, error) {
	return s.listFilesWithQuerier(ctx, s.querier(), runID)
}

// getFileRecordWithQuerier rebuilds a file record with its declarations and
// comments in their original order
func (s *SQLiteStorage) getFileRecordWithQuerier(ctx context.Context, q querier, runID, filename string) (*types.FileRecord, error) {
	var fileID int64
	err := q.QueryRowContext(ctx, "SELECT id FROM files WHERE run_id = ? AND filename = ?", runID, filename).Scan(&fileID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec := types.NewFileRecord(filename)

	rows, err := q.QueryContext(ctx, "SELECT qualified_name, comment_json FROM decls WHERE file_id = ? ORDER BY ordinal", fileID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			d           types.DeclInfo
			commentJSON sql.NullString
		)
		if err := rows.Scan(&d.QualifiedName, &commentJSON); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if d.Comment, err = decodeComment(commentJSON); err != nil {
			_ = rows.Close()
			return nil, err
		}
		rec.Decls = append(rec.Decls, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	rows, err = q.QueryContext(ctx, "SELECT comment_json FROM unattached_comments WHERE file_id = ? ORDER BY ordinal", fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var c types.CommentInfo
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %w", err)
		}
		rec.UnattachedComments = append(rec.UnattachedComments, c)
	}
	return rec, rows.Err()
}

func (s *SQLiteStorage) GetFileRecord(ctx context.Context, runID, filename string) (*types.FileRecord, error) {
	return s.getFileRecordWithQuerier(ctx, s.querier(), runID, filename)
}

func decodeComment(raw sql.NullString) (*types.CommentInfo, error) {
	if !raw.Valid {
		return nil, nil
	}
	var c types.CommentInfo
	if err := json.Unmarshal([]byte(raw.String), &c); err != nil {
		return nil, fmt.Errorf("failed to decode comment: %w", err)
	}
	return &c, nil
}

// Search operations

// searchDeclsWithQuerier matches query as a case-insensitive substring of
// qualified names and comment text
func (s *SQLiteStorage) searchDeclsWithQuerier(ctx context.Context, q querier, runID, query string, limit int) ([]*DeclMatch, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	rows, err := q.QueryContext(ctx, `
		SELECT f.run_id, f.filename, d.qualified_name, d.comment_json
		FROM decls d
		JOIN files f ON f.id = d.file_id
		WHERE f.run_id = ?
		  AND (lower(d.qualified_name) LIKE ? ESCAPE '\' OR lower(d.comment_text) LIKE ? ESCAPE '\')
		ORDER BY f.filename, d.ordinal
		LIMIT ?
	`, runID, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]*DeclMatch, 0)
	for rows.Next() {
		var (
			m           DeclMatch
			commentJSON sql.NullString
		)
		if err := rows.Scan(&m.RunID, &m.Filename, &m.QualifiedName, &commentJSON); err != nil {
			return nil, err
		}
		if m.Comment, err = decodeComment(commentJSON); err != nil {
			return nil, err
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (s *SQLiteStorage) SearchDecls(ctx context.Context, runID, query string, limit int) ([]*DeclMatch, error) {
	return s.searchDeclsWithQuerier(ctx, s.querier(), runID, query, limit)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Transaction delegations

func (t *sqliteTx) SaveRun(ctx context.Context, run *Run, records []*types.FileRecord) error {
	return t.storage.saveRunWithQuerier(ctx, t.querier(), run, records)
}

func (t *sqliteTx) GetRun(ctx context.Context, runID string) (*Run, error) {
	return t.storage.getRunWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) LatestRun(ctx context.Context) (*Run, error) {
	return t.storage.latestRunWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	return t.storage.listRunsWithQuerier(ctx, t.querier(), limit)
}

func (t *sqliteTx) ListFiles(ctx context.Context, runID string) ([]string, error) {
	return t.storage.listFilesWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) GetFileRecord(ctx context.Context, runID, filename string) (*types.FileRecord, error) {
	return t.storage.getFileRecordWithQuerier(ctx, t.querier(), runID, filename)
}

func (t *sqliteTx) SearchDecls(ctx context.Context, runID, query string, limit int) ([]*DeclMatch, error) {
	return t.storage.searchDeclsWithQuerier(ctx, t.querier(), runID, query, limit)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions not supported")
}
