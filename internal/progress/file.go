package progress

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	_ Sink   = (*FileSink)(nil)
	_ Loader = (*FileSink)(nil)
)

// FileSink keeps one YAML file per book under a save directory.
type FileSink struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

func NewFileSink(dir string, logger *zap.Logger) *FileSink {
	return &FileSink{dir: dir, now: time.Now, logger: logger.Named("FileSink")}
}

func (f *FileSink) path(bookID string) string {
	return filepath.Join(f.dir, url.PathEscape(bookID)+".yaml")
}

func (f *FileSink) SaveProgress(ctx context.Context, bookID string, section int) error {
	if err := ctx.Err(); err != nil {
		return saveError(err)
	}
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return &SaveError{Message: "book id is required"}
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return saveError(err)
	}

	data, err := yaml.Marshal(Record{BookID: bookID, Section: section, SavedAt: f.now().UTC()})
	if err != nil {
		return saveError(err)
	}
	if err := os.WriteFile(f.path(bookID), data, 0644); err != nil {
		f.logger.Error("Failed to write progress", zap.String("bookID", bookID), zap.Error(err))
		return saveError(err)
	}
	f.logger.Info("Progress saved", zap.String("bookID", bookID), zap.Int("section", section))
	return nil
}

func (f *FileSink) Load(ctx context.Context, bookID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	data, err := os.ReadFile(f.path(strings.TrimSpace(bookID)))
	if os.IsNotExist(err) {
		return Record{}, ErrNoProgress
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode progress for %q: %w", bookID, err)
	}
	return rec, nil
}
