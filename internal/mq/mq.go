// Package mq carries image events between the API server and the cleanup
// worker over RabbitMQ or Google Pub/Sub.
package mq

import (
	"context"
	"errors"
)

// ErrDisabled is returned by a nil *MQ, which stands for MQ_BACKEND=none.
var ErrDisabled = errors.New("message queue disabled")

// Message is a delivered payload together with its broker attributes.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. A returned error nacks it for redelivery.
type Handler func(ctx context.Context, msg Message) error

// Backend is implemented by each broker client.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ is the broker-independent handle used by services and commands.
type MQ struct {
	backend Backend
}

// New wraps backend.
func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Publish sends data to channel and returns the broker message id.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if m == nil {
		return "", ErrDisabled
	}
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe blocks delivering messages from channel to handler until ctx ends.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if m == nil {
		return ErrDisabled
	}
	return m.backend.Subscribe(ctx, channel, handler)
}

// Close releases the backend. It is a no-op on a nil *MQ.
func (m *MQ) Close() error {
	if m == nil {
		return nil
	}
	return m.backend.Close()
}
