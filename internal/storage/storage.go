// Package storage moves PDF bytes between clients and the configured file store.
//
// Clients never stream files through the API handlers: they ask for a
// presigned upload URL, send the bytes there, then register the metadata.
// Two strategies exist. S3 signs URLs for an S3 compatible bucket. Local
// hands out URLs served by this process and keeps the bytes in memory with
// a copy on disk.
package storage

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/linkboard/linkboard/internal/config"
)

// Strategy names reported to clients.
const (
	NameS3    = "s3"
	NameLocal = "local"
)

// Store is a file store strategy, chosen once at startup.
type Store interface {
	// Name is NameS3 or NameLocal.
	Name() string
	// PresignUpload returns a URL accepting a PUT of the object bytes.
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	// PresignDownload returns a URL serving the object bytes.
	PresignDownload(ctx context.Context, key string) (string, error)
	// Delete removes the object. Removing a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// Object is a stored file.
type Object struct {
	Data        []byte
	ContentType string
}

// Receiver is implemented by stores whose presigned URLs point back at this process.
type Receiver interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	Open(ctx context.Context, key string) (*Object, error)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename replaces every character outside [a-zA-Z0-9._-] with "_".
func SanitizeFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// NewKey builds the object key for filename uploaded at now.
// Two uploads of the same filename within one millisecond get the same key.
func NewKey(filename string, now time.Time) string {
	return "pdfs/" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + SanitizeFilename(filename)
}

// New picks S3 when it is fully configured and the local store otherwise.
func New(cfg *config.Config) (Store, error) {
	if cfg.S3.Configured() {
		return NewS3(cfg.S3)
	}

	return NewLocal(cfg.Storage.LocalDir, cfg.Storage.MaxUploadSize)
}
