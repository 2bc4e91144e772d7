package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be sqlite, mysql or postgres")

	// ErrOwnerIncomplete error if only one of owner email and password is set.
	ErrOwnerIncomplete = errors.New("toml config owner needs both email and password")

	// ErrInvalidLifetime error if a token lifetime can not be parsed.
	ErrInvalidLifetime = errors.New("invalid token lifetime")
)
