package storage

import "errors"

var (
	// ErrObjectNotFound is returned when no object exists under a key.
	ErrObjectNotFound = errors.New("file not found")
	// ErrEmptyObject is returned when an upload carries no bytes.
	ErrEmptyObject = errors.New("no file data received")
	// ErrObjectTooLarge is returned when an upload exceeds the size cap.
	ErrObjectTooLarge = errors.New("file too large")
	// ErrInvalidKey is returned for keys that can not name a file.
	ErrInvalidKey = errors.New("invalid file key")
	// ErrS3NotConfigured is returned when S3 settings are incomplete.
	ErrS3NotConfigured = errors.New("s3 region, bucket and credentials are required")
)
