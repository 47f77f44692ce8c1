package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gardenlog/apiserver/internal/mq"
	"github.com/gardenlog/apiserver/internal/storage"
	"github.com/rs/zerolog"
)

// ObjectDeleter removes stored uploads.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// UploadCleanup deletes uploads announced as released by ImageService.
type UploadCleanup struct {
	objects ObjectDeleter
	logger  zerolog.Logger
}

// NewUploadCleanup returns a handler deleting released uploads from objects.
func NewUploadCleanup(objects ObjectDeleter, logger zerolog.Logger) *UploadCleanup {
	return &UploadCleanup{objects: objects, logger: logger}
}

// Handle is an mq.Handler. Malformed messages are dropped; storage failures
// are returned so the broker redelivers.
func (c *UploadCleanup) Handle(ctx context.Context, msg mq.Message) error {
	var event ImageEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping malformed image event")
		return nil
	}

	switch event.Type {
	case EventImageDeleted, EventImageReplaced:
	default:
		c.logger.Debug().Str("type", event.Type).Msg("ignoring image event")
		return nil
	}
	if event.ObjectKey == "" {
		return nil
	}

	if err := c.objects.Delete(ctx, event.ObjectKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil
		}
		return fmt.Errorf("delete upload %s: %w", event.ObjectKey, err)
	}

	c.logger.Info().
		Str("type", event.Type).
		Int("image_id", event.ImageID).
		Str("object_key", event.ObjectKey).
		Msg("released upload removed")
	return nil
}
