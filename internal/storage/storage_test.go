package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/linkboard/internal/config"
)

func TestNewKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	testCases := []struct {
		filename string
		want     string
	}{
		{filename: "report.pdf", want: "pdfs/1700000000123-report.pdf"},
		{filename: "my report (final).pdf", want: "pdfs/1700000000123-my_report__final_.pdf"},
		{filename: "../../etc/passwd", want: "pdfs/1700000000123-.._.._etc_passwd"},
		{filename: "Übersicht.pdf", want: "pdfs/1700000000123-_bersicht.pdf"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.want, NewKey(tc.filename, now))
		})
	}
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	l, err := NewLocal(dir, 1024)
	require.NoError(t, err)
	assert.Equal(t, NameLocal, l.Name())

	key := "pdfs/1-doc.pdf"

	up, err := l.PresignUpload(ctx, key, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/api/pdfs/upload/pdfs%2F1-doc.pdf", up)

	down, err := l.PresignDownload(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/api/pdfs/download/pdfs%2F1-doc.pdf", down)

	require.NoError(t, l.Save(ctx, key, "application/x-pdf", []byte("%PDF-1.4 body")))

	obj, err := l.Open(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 body"), obj.Data)
	assert.Equal(t, "application/x-pdf", obj.ContentType)

	onDisk, err := os.ReadFile(filepath.Join(dir, "pdfs_1-doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, obj.Data, onDisk)

	// a new process only has the disk copy
	restarted, err := NewLocal(dir, 1024)
	require.NoError(t, err)

	obj, err = restarted.Open(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 body"), obj.Data)
	assert.Equal(t, "application/pdf", obj.ContentType)

	require.NoError(t, restarted.Delete(ctx, key))
	require.NoError(t, restarted.Delete(ctx, key), "deleting twice is fine")

	_, err = restarted.Open(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalSaveRejects(t *testing.T) {
	ctx := context.Background()

	l, err := NewLocal(t.TempDir(), 4)
	require.NoError(t, err)

	assert.ErrorIs(t, l.Save(ctx, "pdfs/a", "", nil), ErrEmptyObject)
	assert.ErrorIs(t, l.Save(ctx, "pdfs/a", "", []byte("12345")), ErrObjectTooLarge)
	assert.ErrorIs(t, l.Save(ctx, "..", "", []byte("1")), ErrInvalidKey)
	assert.NoError(t, l.Save(ctx, "pdfs/a", "", []byte("1234")))
}

func TestLocalKeysStayInsideDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	l, err := NewLocal(filepath.Join(dir, "store"), 1024)
	require.NoError(t, err)

	require.NoError(t, l.Save(ctx, "../escape.pdf", "", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "store", ".._escape.pdf"))
	assert.NoError(t, err)
}

func TestLocalConcurrentSaves(t *testing.T) {
	ctx := context.Background()

	l, err := NewLocal(t.TempDir(), 1024)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			assert.NoError(t, l.Save(ctx, "pdfs/"+strings.Repeat("x", i+1), "", []byte{byte(i)}))
		}()
	}

	wg.Wait()
	assert.Len(t, l.objects, 16)
}

func s3Config(endpoint string) config.S3 {
	return config.S3{
		Region:          "eu-central-1",
		Bucket:          "board",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        endpoint,
		UploadTTL:       15 * time.Minute,
		DownloadTTL:     time.Hour,
	}
}

func TestS3Presign(t *testing.T) {
	ctx := context.Background()

	s, err := NewS3(s3Config("http://localhost:4566"))
	require.NoError(t, err)
	assert.Equal(t, NameS3, s.Name())

	up, err := s.PresignUpload(ctx, "pdfs/1-doc.pdf", "application/pdf")
	require.NoError(t, err)

	u, err := url.Parse(up)
	require.NoError(t, err)
	assert.Equal(t, "localhost:4566", u.Host)
	assert.Equal(t, "/board/pdfs/1-doc.pdf", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	down, err := s.PresignDownload(ctx, "pdfs/1-doc.pdf")
	require.NoError(t, err)

	u, err = url.Parse(down)
	require.NoError(t, err)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestS3Delete(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s, err := NewS3(s3Config(srv.URL))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "pdfs/1-doc.pdf"))

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/board/pdfs/1-doc.pdf", path)
}

func TestNewPicksStrategy(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.LocalDir = t.TempDir()

	store, err := New(&cfg)
	require.NoError(t, err)
	assert.Equal(t, NameLocal, store.Name())

	_, isReceiver := store.(Receiver)
	assert.True(t, isReceiver)

	cfg.S3 = s3Config("")

	store, err = New(&cfg)
	require.NoError(t, err)
	assert.Equal(t, NameS3, store.Name())

	_, isReceiver = store.(Receiver)
	assert.False(t, isReceiver)

	_, err = NewS3(config.S3{Region: "x"})
	assert.ErrorIs(t, err, ErrS3NotConfigured)
}
