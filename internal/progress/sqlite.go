package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	_ Sink   = (*SQLiteSink)(nil)
	_ Loader = (*SQLiteSink)(nil)
)

const progressSchema = `
CREATE TABLE IF NOT EXISTS progress (
  book_id  TEXT PRIMARY KEY,
  section  INTEGER NOT NULL,
  saved_at INTEGER NOT NULL
)`

// SQLiteSink keeps the latest bookmark of every book in a SQLite table.
type SQLiteSink struct {
	sqlDB  *sql.DB
	now    func() time.Time
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) the progress database at path.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(progressSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create progress table: %w", err)
	}
	return &SQLiteSink{sqlDB: sqlDB, now: time.Now, logger: logger.Named("SQLiteSink")}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteSink) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteSink) SaveProgress(ctx context.Context, bookID string, section int) error {
	if err := ctx.Err(); err != nil {
		return saveError(err)
	}
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return &SaveError{Message: "book id is required"}
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO progress (book_id, section, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(book_id) DO UPDATE SET section = excluded.section, saved_at = excluded.saved_at`,
		bookID, section, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		s.logger.Error("Failed to upsert progress", zap.String("bookID", bookID), zap.Error(err))
		return saveError(fmt.Errorf("save progress: %w", err))
	}
	s.logger.Info("Progress saved", zap.String("bookID", bookID), zap.Int("section", section))
	return nil
}

func (s *SQLiteSink) Load(ctx context.Context, bookID string) (Record, error) {
	rec := Record{BookID: strings.TrimSpace(bookID)}
	var savedAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT section, saved_at FROM progress WHERE book_id = ?`, rec.BookID,
	).Scan(&rec.Section, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNoProgress
	}
	if err != nil {
		return Record{}, fmt.Errorf("load progress: %w", err)
	}
	rec.SavedAt = time.UnixMilli(savedAt).UTC()
	return rec, nil
}
