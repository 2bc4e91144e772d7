package models

// Setting is a process level key/value pair.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:100;not null"`
	Value []byte
}
