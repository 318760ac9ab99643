package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	prerror "github.com/msto63/pratt/foundation/core/error"
)

// Entry is a single recorded evaluation
type Entry struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id,omitempty"`
	Input     string        `json:"input"`
	Result    float64       `json:"result"`
	Error     string        `json:"error,omitempty"`
	Code      string        `json:"code,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Failed reports whether the evaluation ended with an error
func (e *Entry) Failed() bool {
	return e.Error != ""
}

// Filter restricts Recent
type Filter struct {
	SessionID  string
	FailedOnly bool
	Limit      int
}

// Stats summarizes the stored evaluations
type Stats struct {
	Total       int64            `json:"total"`
	Failed      int64            `json:"failed"`
	Sessions    int64            `json:"sessions"`
	AvgDuration time.Duration    `json:"avg_duration"`
	ByCode      map[string]int64 `json:"by_code,omitempty"`
	First       time.Time        `json:"first,omitempty"`
	Last        time.Time        `json:"last,omitempty"`
}

// Store persists evaluations
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, filter Filter) ([]*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// DefaultLimit applies when a filter leaves Limit unset
const DefaultLimit = 20

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the history database
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, prerror.New("history database path is empty").
			WithCode(prerror.CodeRequiredField).
			WithOperation("history.NewSQLiteStore")
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory", "history.NewSQLiteStore").
			WithDetail("path", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "failed to open database", "history.NewSQLiteStore")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "history.NewSQLiteStore").
			WithDetail("path", cfg.Path)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		input TEXT NOT NULL,
		result REAL,
		error TEXT,
		code TEXT,
		duration_ns INTEGER NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_timestamp ON evaluations(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_session ON evaluations(session_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_code ON evaluations(code);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an entry, assigning an ID and timestamp when missing
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return prerror.New("history entry is nil").
			WithCode(prerror.CodeInvalidInput).
			WithOperation("history.Record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, session_id, input, result, error, code, duration_ns, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, nullable(entry.SessionID), entry.Input, entry.Result,
		nullable(entry.Error), nullable(entry.Code), int64(entry.Duration), entry.Timestamp.UTC())
	if err != nil {
		return dbError(err, "failed to insert evaluation", "history.Record").
			WithDetail("id", entry.ID)
	}

	return nil
}

// Recent returns the newest entries first
func (s *SQLiteStore) Recent(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, session_id, input, result, error, code, duration_ns, timestamp FROM evaluations WHERE 1=1`
	var args []interface{}

	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.FailedOnly {
		query += " AND error IS NOT NULL"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += " ORDER BY timestamp DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query evaluations", "history.Recent")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dbError(err, "failed to scan evaluation", "history.Recent")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read evaluations", "history.Recent")
	}

	return entries, nil
}

// Get returns the entry with the given ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, input, result, error, code, duration_ns, timestamp
		FROM evaluations WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prerror.New("evaluation not found").
			WithCode(prerror.CodeNotFound).
			WithOperation("history.Get").
			WithDetail("id", id)
	}
	if err != nil {
		return nil, dbError(err, "failed to get evaluation", "history.Get").
			WithDetail("id", id)
	}
	return entry, nil
}

// Stats aggregates over all stored entries
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{ByCode: make(map[string]int64)}

	var avg sql.NullFloat64
	var first, last sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(error),
		       COUNT(DISTINCT session_id),
		       AVG(duration_ns),
		       MIN(timestamp),
		       MAX(timestamp)
		FROM evaluations
	`).Scan(&stats.Total, &stats.Failed, &stats.Sessions, &avg, &first, &last)
	if err != nil {
		return nil, dbError(err, "failed to aggregate evaluations", "history.Stats")
	}
	if avg.Valid {
		stats.AvgDuration = time.Duration(avg.Float64)
	}
	stats.First = parseTimestamp(first)
	stats.Last = parseTimestamp(last)

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, COUNT(*) FROM evaluations
		WHERE code IS NOT NULL GROUP BY code
	`)
	if err != nil {
		return nil, dbError(err, "failed to count error codes", "history.Stats")
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var count int64
		if err := rows.Scan(&code, &count); err != nil {
			return nil, dbError(err, "failed to scan error code", "history.Stats")
		}
		stats.ByCode[code] = count
	}

	return stats, rows.Err()
}

// Prune deletes entries older than the given age and returns how many
// were removed
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune evaluations", "history.Prune")
	}
	return result.RowsAffected()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var sessionID, errText, code sql.NullString
	var result sql.NullFloat64
	var durationNs int64

	if err := row.Scan(&entry.ID, &sessionID, &entry.Input, &result,
		&errText, &code, &durationNs, &entry.Timestamp); err != nil {
		return nil, err
	}

	entry.SessionID = sessionID.String
	entry.Result = result.Float64
	entry.Error = errText.String
	entry.Code = code.String
	entry.Duration = time.Duration(durationNs)
	return &entry, nil
}

// Aggregates come back as text rather than DATETIME
func parseTimestamp(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func dbError(err error, msg, op string) *prerror.Error {
	return prerror.Wrap(err, msg).
		WithCode(prerror.CodeDatabaseError).
		WithOperation(op)
}
