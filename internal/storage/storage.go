package storage

import (
	"context"
	"io"
	"time"
)

// Gateway stores raw bytes under an opaque object name and hands them back.
// Callers validate content before Upload; the gateway only moves bytes.
type Gateway interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
