// Package source loads books by id from a directory, the books API or Gemini.
package source

import (
	"context"
	"errors"

	"github.com/tatianab/gamebook/internal/models"
)

var (
	ErrNotFound = errors.New("book not found")
	ErrNetwork  = errors.New("network error")
)

// Source loads a book by id.
type Source interface {
	LoadBook(ctx context.Context, bookID string) (*models.Book, error)
}

// Lister is implemented by sources that can enumerate their books.
type Lister interface {
	ListBooks(ctx context.Context) ([]string, error)
}
