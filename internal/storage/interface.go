package storage

import "context"

// ObjectStorage stores small documents under string keys.
type ObjectStorage interface {
	// Put writes body under key, replacing any existing object
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
