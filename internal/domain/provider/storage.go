package provider

import (
	"context"
	"io"
	"time"
)

// DocumentStore accepts binary uploads and returns durable retrieval URLs.
type DocumentStore interface {
	// Put writes the object and returns its durable URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// Delete removes the object. Used as the compensating action when a
	// metadata write fails after a successful store write.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a time-limited download URL for private objects.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
