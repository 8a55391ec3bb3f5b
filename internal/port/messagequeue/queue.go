// Package messagequeue defines the message queue port.
package messagequeue

import "context"

// Handler processes one message from a subject.
type Handler func(subject string, data []byte) error

// Queue is the port interface for durable publish/subscribe messaging.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, handler Handler) (func(), error)
	Close() error
}
