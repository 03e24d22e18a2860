package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalGateway writes objects under a base directory. Default gateway for
// development; object names map to relative file paths.
type LocalGateway struct {
	baseDir string
}

func NewLocalGateway(baseDir string) (*LocalGateway, error) {
	if baseDir == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &LocalGateway{baseDir: baseDir}, nil
}

// resolve keeps object paths inside baseDir.
func (g *LocalGateway) resolve(objectName string) (string, error) {
	clean := filepath.Clean("/" + objectName)
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", os.ErrInvalid
	}
	return filepath.Join(g.baseDir, clean), nil
}

func (g *LocalGateway) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	path, err := g.resolve(objectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return objectName, nil
}

func (g *LocalGateway) Download(_ context.Context, objectName string) (io.ReadCloser, error) {
	path, err := g.resolve(objectName)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}
