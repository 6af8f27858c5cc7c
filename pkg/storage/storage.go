// Package storage keeps appeal photos on disk or in an S3-compatible bucket
// behind one interface.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded photo blobs. Object names are opaque to callers;
// NewObjectName produces them.
type Storage interface {
	Save(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, objectName string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectName string) error
	URL(objectName string) string
}

// NewObjectName generates a collision-free object name keeping the original
// file extension.
func NewObjectName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.NewString() + ext
}
