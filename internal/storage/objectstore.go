package storage

import (
	"context"
	"io"
)

//go:generate mockgen -source=objectstore.go -destination=mock/objectstore_mock.go -package=mock

// ObjectStore is the boundary the services consume. Implementations upload a
// binary under a key and hand back a publicly reachable URL; removal is
// best-effort cleanup invoked after a request deletion returns its key list.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, size int64, body io.Reader) (publicURL string, err error)
	Remove(ctx context.Context, key string) error
}
