package storage

import (
	"context"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSGateway keeps objects private; reads go through Download or a signed
// URL. Payment proofs and resumes must never be world-readable.
type GCSGateway struct {
	client *gcs.Client
	bucket string
}

func NewGCSGateway(ctx context.Context, bucket string) (*GCSGateway, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSGateway{client: c, bucket: bucket}, nil
}

func (g *GCSGateway) Close() error { return g.client.Close() }

func (g *GCSGateway) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := g.client.Bucket(g.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return objectName, nil
}

func (g *GCSGateway) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return g.client.Bucket(g.bucket).Object(objectName).NewReader(ctx)
}

func (g *GCSGateway) SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	return g.client.Bucket(g.bucket).SignedURL(objectName, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
}
