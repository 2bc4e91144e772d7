// Package controller holds the errors shared by the resource stores below it.
package controller

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrIDEmpty is returned when a lookup is done without an id.
	ErrIDEmpty = errors.New("id cannot be empty")
)
