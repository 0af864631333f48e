package progress

import (
	"context"

	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/api"
)

var _ Sink = (*HTTPSink)(nil)

// HTTPSink bookmarks progress through the books API.
type HTTPSink struct {
	client *api.Client
	logger *zap.Logger
}

func NewHTTPSink(client *api.Client, logger *zap.Logger) *HTTPSink {
	return &HTTPSink{client: client, logger: logger.Named("HTTPSink")}
}

func (h *HTTPSink) SaveProgress(ctx context.Context, bookID string, section int) error {
	if err := h.client.SaveProgress(ctx, bookID, section); err != nil {
		h.logger.Warn("Failed to save progress", zap.String("bookID", bookID), zap.Int("section", section), zap.Error(err))
		return saveError(err)
	}
	return nil
}
