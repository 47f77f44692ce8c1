package services

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	EventImageDeleted  = "image.deleted"
	EventImageReplaced = "image.replaced"
)

// ImageEvent announces that an uploaded object is no longer referenced by
// its image record.
type ImageEvent struct {
	Type      string `json:"type"`
	ImageID   int    `json:"image_id"`
	ObjectKey string `json:"object_key"`
}

// EventPublisher is the subset of mq.MQ the services need.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

func publishImageEvent(ctx context.Context, publisher EventPublisher, channel string, event ImageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	if _, err := publisher.Publish(ctx, channel, data, map[string]string{"type": event.Type}); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}
