package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/models"
)

var (
	_ Source = (*Dir)(nil)
	_ Lister = (*Dir)(nil)
)

// maxSuggestDistance bounds how different a suggested id may be from the requested one.
const maxSuggestDistance = 3

// Dir serves books stored as <id>.yaml, <id>.yml or <id>.json files in a directory.
type Dir struct {
	root   string
	logger *zap.Logger
}

func NewDir(root string, logger *zap.Logger) *Dir {
	return &Dir{root: root, logger: logger.Named("DirSource")}
}

func (d *Dir) LoadBook(ctx context.Context, bookID string) (*models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(bookID)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, bookID)
	}

	path, ok := models.FindBookFile(d.root, id)
	if !ok {
		if best := d.suggest(ctx, id); best != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrNotFound, id, best)
		}
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	book, err := models.LoadBookFile(path)
	if err != nil {
		d.logger.Error("Failed to load book", zap.String("bookID", id), zap.String("path", path), zap.Error(err))
		return nil, err
	}
	d.logger.Debug("Loaded book", zap.String("bookID", id), zap.Int("sections", len(book.Sections)))
	return book, nil
}

func (d *Dir) ListBooks(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return models.ListBooks(d.root)
}

// suggest returns the known book id closest to id, if any is close enough.
func (d *Dir) suggest(ctx context.Context, id string) string {
	books, err := d.ListBooks(ctx)
	if err != nil {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, b := range books {
		dist := levenshtein.ComputeDistance(strings.ToLower(id), strings.ToLower(b))
		if dist < bestDist {
			best, bestDist = b, dist
		}
	}
	return best
}
