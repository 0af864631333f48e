package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/api"
	"github.com/tatianab/gamebook/internal/models"
)

var (
	_ Source = (*HTTP)(nil)
	_ Lister = (*HTTP)(nil)
)

// HTTP loads books from the books API.
type HTTP struct {
	client *api.Client
	logger *zap.Logger
}

func NewHTTP(client *api.Client, logger *zap.Logger) *HTTP {
	return &HTTP{client: client, logger: logger.Named("HTTPSource")}
}

func (h *HTTP) LoadBook(ctx context.Context, bookID string) (*models.Book, error) {
	book, err := h.client.GetBook(ctx, bookID)
	if err != nil {
		h.logger.Warn("Failed to fetch book", zap.String("bookID", bookID), zap.Error(err))
		return nil, classify(err)
	}
	return book, nil
}

func (h *HTTP) ListBooks(ctx context.Context) ([]string, error) {
	summaries, err := h.client.ListBooks(ctx)
	if err != nil {
		return nil, classify(err)
	}
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if s.Path != "" {
			ids = append(ids, s.Path)
		}
	}
	return ids, nil
}

// classify tags API failures with ErrNotFound or ErrNetwork.
func classify(err error) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
