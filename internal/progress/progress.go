// Package progress bookmarks the section a reader reached in a book.
package progress

import (
	"context"
	"errors"
	"time"
)

// ErrNoProgress is returned by Load when nothing was saved for a book.
var ErrNoProgress = errors.New("no saved progress")

// Sink stores the section a reader reached.
type Sink interface {
	SaveProgress(ctx context.Context, bookID string, section int) error
}

// Loader reads back saved progress.
type Loader interface {
	Load(ctx context.Context, bookID string) (Record, error)
}

// Record is one saved bookmark.
type Record struct {
	BookID  string    `yaml:"book_id"`
	Section int       `yaml:"section"`
	SavedAt time.Time `yaml:"saved_at"`
}

// SaveError is a failed save. Its message is what the reader is shown.
type SaveError struct {
	Message string
	Err     error
}

func (e *SaveError) Error() string { return e.Message }

func (e *SaveError) Unwrap() error { return e.Err }

func saveError(err error) error {
	if err == nil {
		return nil
	}
	var se *SaveError
	if errors.As(err, &se) {
		return err
	}
	return &SaveError{Message: err.Error(), Err: err}
}
