// Package storage defines the object store that holds uploaded image bytes.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("storage: object not found")

// ErrExists is returned when writing to a key that is already taken.
var ErrExists = errors.New("storage: object already exists")

// Object is an open stored object. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store persists immutable objects under opaque keys.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Open(ctx context.Context, key string) (*Object, error)
	Ping(ctx context.Context) error
	Bucket() string
	Close() error
}
