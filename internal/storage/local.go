package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// URL prefixes served by the pdf handler for the local store.
const (
	LocalUploadPath   = "/api/pdfs/upload/"
	LocalDownloadPath = "/api/pdfs/download/"
)

const defaultContentType = "application/pdf"

var keyToFilename = strings.NewReplacer("/", "_", `\`, "_") //nolint:gochecknoglobals

// Local keeps uploads in memory and mirrors them to a directory.
// Files written by a previous process are served from disk.
type Local struct {
	dir     string
	maxSize int64

	mu      sync.RWMutex
	objects map[string]Object
}

// NewLocal creates the local store, creating dir if needed.
func NewLocal(dir string, maxSize int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create local storage dir %s: %w", dir, err)
	}

	return &Local{
		dir:     dir,
		maxSize: maxSize,
		objects: make(map[string]Object),
	}, nil
}

// Name implements Store.
func (l *Local) Name() string {
	return NameLocal
}

// MaxSize is the largest accepted upload in bytes.
func (l *Local) MaxSize() int64 {
	return l.maxSize
}

// PresignUpload implements Store. The URL is relative to this service.
func (l *Local) PresignUpload(_ context.Context, key, _ string) (string, error) {
	return LocalUploadPath + url.PathEscape(key), nil
}

// PresignDownload implements Store. The URL is relative to this service.
func (l *Local) PresignDownload(_ context.Context, key string) (string, error) {
	return LocalDownloadPath + url.PathEscape(key), nil
}

func (l *Local) path(key string) (string, error) {
	name := keyToFilename.Replace(key)
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidKey
	}

	return filepath.Join(l.dir, name), nil
}

// Save implements Receiver.
func (l *Local) Save(_ context.Context, key, contentType string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyObject
	}

	if l.maxSize > 0 && int64(len(data)) > l.maxSize {
		return ErrObjectTooLarge
	}

	p, err := l.path(key)
	if err != nil {
		return err
	}

	if contentType == "" {
		contentType = defaultContentType
	}

	obj := Object{Data: append([]byte(nil), data...), ContentType: contentType}

	l.mu.Lock()
	l.objects[key] = obj
	l.mu.Unlock()

	if err = os.WriteFile(p, obj.Data, 0o640); err != nil { //nolint:gosec
		return fmt.Errorf("write %s: %w", p, err)
	}

	return nil
}

// Open implements Receiver. Memory is consulted first, then disk.
func (l *Local) Open(_ context.Context, key string) (*Object, error) {
	l.mu.RLock()
	obj, ok := l.objects[key]
	l.mu.RUnlock()

	if ok {
		return &obj, nil
	}

	p, err := l.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	return &Object{Data: data, ContentType: defaultContentType}, nil
}

// Delete implements Store.
func (l *Local) Delete(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.objects, key)
	l.mu.Unlock()

	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}

	return nil
}
