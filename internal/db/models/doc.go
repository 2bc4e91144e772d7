// Package models contains the gorm models persisted by linkboard.
package models
