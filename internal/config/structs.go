package config

import (
	"time"

	"github.com/linkboard/linkboard/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Token     Token
	Owner     Owner
	S3        S3
	Storage   Storage
	Redis     Redis
}

// Webserver implement webserver settings.
type Webserver struct {
	Port           int       // listening port for the webserver
	URL            string    // public base url of the service
	ShutDownTime   int       // seconds to keep answering 503 on /health before stopping
	AllowOrigins   string    // CORS origins, comma separated ("*" for all)
	StaticDir      string    // directory with the built frontend, empty disables static serving
	Metrics        bool      // expose prometheus metrics on /metrics
	DisableRecover bool      // disable recover middleware
	BodyLimit      int       // max request body in bytes
	RateLimit      RateLimit // global request budget
}

// RateLimit is a fixed window shared by every caller of the process.
type RateLimit struct {
	Max    int
	Window time.Duration
}

// Token holds the signing settings for bearer tokens.
type Token struct {
	Secret   string        // HS256 secret, generated and persisted when empty
	Lifetime time.Duration // validity of an issued token
}

// Owner is the account seeded at startup.
type Owner struct {
	Email    string
	Password string
}

// S3 holds the remote object store settings. All of Region, Bucket,
// AccessKeyID and SecretAccessKey must be set to use it.
type S3 struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // custom endpoint (LocalStack, MinIO), switches to path style
	UploadTTL       time.Duration
	DownloadTTL     time.Duration
}

// Configured reports whether the remote store can be used.
func (s S3) Configured() bool {
	return s.Region != "" && s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// Storage holds the local file store settings.
type Storage struct {
	LocalDir      string
	MaxUploadSize int64
}

// Redis holds the broadcast relay settings. An empty URL keeps events in process.
type Redis struct {
	URL     string
	Channel string
}
