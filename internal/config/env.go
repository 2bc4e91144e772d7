package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables the service has always read.
var envBindings = map[string]string{ //nolint:gochecknoglobals
	"webserver.port":         "PORT",
	"webserver.alloworigins": "FRONTEND_ORIGIN",
	"db.dsn":                 "DATABASE_URL",
	"db.gormengine":          "DB_ENGINE",
	"token.secret":           "JWT_SECRET",
	"token.lifetime":         "JWT_EXPIRES_IN",
	"owner.email":            "OWNER_EMAIL",
	"owner.password":         "OWNER_PASSWORD",
	"s3.region":              "S3_REGION",
	"s3.bucket":              "S3_BUCKET",
	"s3.accesskeyid":         "AWS_ACCESS_KEY_ID",
	"s3.secretaccesskey":     "AWS_SECRET_ACCESS_KEY",
	"s3.endpoint":            "AWS_ENDPOINT_URL",
	"redis.url":              "REDIS_URL",
}

// applyEnv overlays every bound environment variable that is set on c.
func applyEnv(c *Config) error {
	v := viper.New()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("webserver.port") {
		c.Webserver.Port = v.GetInt("webserver.port")
	}

	setString("webserver.alloworigins", &c.Webserver.AllowOrigins)
	setString("db.dsn", &c.DB.DSN)
	setString("db.gormengine", &c.DB.GormEngine)
	setString("token.secret", &c.Token.Secret)
	setString("owner.email", &c.Owner.Email)
	setString("owner.password", &c.Owner.Password)
	setString("s3.region", &c.S3.Region)
	setString("s3.bucket", &c.S3.Bucket)
	setString("s3.accesskeyid", &c.S3.AccessKeyID)
	setString("s3.secretaccesskey", &c.S3.SecretAccessKey)
	setString("s3.endpoint", &c.S3.Endpoint)
	setString("redis.url", &c.Redis.URL)

	if v.IsSet("token.lifetime") {
		lifetime, err := ParseLifetime(v.GetString("token.lifetime"))
		if err != nil {
			return err
		}

		c.Token.Lifetime = lifetime
	}

	return nil
}

// ParseLifetime accepts Go durations ("12h"), day counts ("7d") and plain seconds ("3600").
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, errors.Wrapf(ErrInvalidLifetime, "%q", s)
		}

		return time.Duration(n) * 24 * time.Hour, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, errors.Wrapf(ErrInvalidLifetime, "%q", s)
		}

		return time.Duration(n) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.Wrapf(ErrInvalidLifetime, "%q", s)
	}

	return d, nil
}
