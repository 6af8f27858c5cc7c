package storage

import (
	"fmt"
	"mime/multipart"
)

const (
	// MaxPhotosPerAppeal caps both initial citizen photos and result photos.
	MaxPhotosPerAppeal = 5
	// DefaultMaxFileSize is 5 MB.
	DefaultMaxFileSize = 5 * 1024 * 1024
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateUpload rejects the file header before any bytes are stored.
func ValidateUpload(fh *multipart.FileHeader, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if fh.Size > maxSize {
		return fmt.Errorf("file %q exceeds the %d byte limit", fh.Filename, maxSize)
	}
	ct := fh.Header.Get("Content-Type")
	if !allowedContentTypes[ct] {
		return fmt.Errorf("unsupported content type %q, expected an image", ct)
	}
	return nil
}
