// Package config handles input from etc/*.toml files, a JSON override and the process environment.
package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/linkboard/linkboard/internal/logger"
)

// JSONConfigEnv names the variable holding a JSON document merged over main.toml.
const JSONConfigEnv = "LINKBOARD_CONFIG_JSON"

// MiB is one mebibyte.
const MiB = 1 << 20

const masked = "********"

// Default returns the configuration used for every value main.toml and the environment leave out.
func Default() Config {
	return Config{
		Title: "linkboard",
		DB: DB{
			GormEngine: EngineSQLite,
			Name:       "linkboard.db",
		},
		Log: logger.Log{
			LogLevel:    "info",
			AppName:     "linkboard",
			ServiceName: "linkboard",
			Console:     logger.Console{Enabled: true},
		},
		Webserver: Webserver{
			Port:         4000,
			URL:          "http://localhost:4000",
			ShutDownTime: 5,
			AllowOrigins: "*",
			BodyLimit:    21 * MiB,
			RateLimit:    RateLimit{Max: 120, Window: time.Minute},
		},
		Token: Token{Lifetime: 24 * time.Hour},
		S3: S3{
			UploadTTL:   15 * time.Minute,
			DownloadTTL: time.Hour,
		},
		Storage: Storage{
			LocalDir:      "./temp-pdfs",
			MaxUploadSize: 20 * MiB,
		},
		Redis: Redis{Channel: "linkboard:events"},
	}
}

// ReadConfig from config file.
// A missing main.toml is not an error, the defaults plus environment are used instead.
func ReadConfig(path string) (Config, error) {
	var (
		c   = Default()
		err error
	)

	if path == "" {
		path = "./etc/"
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(JSONConfigEnv); configAsJSON != "" {
		if c, err = decodeAndMergeConfig(c, configAsJSON); err != nil {
			return c, err
		}
	}

	if err = applyEnv(&c); err != nil {
		return c, err
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// Masked returns a copy of c with every secret replaced.
func (c Config) Masked() Config {
	hide := func(s *string) {
		if *s != "" {
			*s = masked
		}
	}

	hide(&c.DB.Password)
	hide(&c.DB.DSN)
	hide(&c.Token.Secret)
	hide(&c.Owner.Password)
	hide(&c.S3.SecretAccessKey)
	hide(&c.Redis.URL)

	return c
}

// DumpConfig config as TOML String, secrets masked.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c.Masked()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String, secrets masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c.Masked()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill in defaults for zero values.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	c.DB.GormEngine = strings.ToLower(strings.TrimSpace(c.DB.GormEngine))
	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if (c.Owner.Email == "") != (c.Owner.Password == "") {
		return errors.Wrap(ErrOwnerIncomplete, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.RateLimit.Max <= 0 {
		c.Webserver.RateLimit.Max = 120
	}

	if c.Webserver.RateLimit.Window <= 0 {
		c.Webserver.RateLimit.Window = time.Minute
	}

	if c.Token.Lifetime <= 0 {
		c.Token.Lifetime = 24 * time.Hour
	}

	if c.Storage.MaxUploadSize <= 0 {
		c.Storage.MaxUploadSize = 20 * MiB
	}

	// the upload route must accept a full file plus framing
	if minBody := int(c.Storage.MaxUploadSize) + MiB; c.Webserver.BodyLimit < minBody {
		c.Webserver.BodyLimit = minBody
	}

	if c.S3.UploadTTL <= 0 {
		c.S3.UploadTTL = 15 * time.Minute
	}

	if c.S3.DownloadTTL <= 0 {
		c.S3.DownloadTTL = time.Hour
	}

	if c.Redis.Channel == "" {
		c.Redis.Channel = "linkboard:events"
	}

	return nil
}
