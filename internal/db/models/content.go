package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}

	return id
}

// Link is an anchor link posted by the owner.
type Link struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:512;not null" json:"title"`
	URL       string    `gorm:"size:2048;not null" json:"url"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	CreatedBy string    `gorm:"size:36" json:"createdBy"`
}

// BeforeCreate assigns an id.
func (l *Link) BeforeCreate(_ *gorm.DB) error {
	l.ID = ensureID(l.ID)
	return nil
}

// Video is a YouTube video, at most one of them is pinned.
type Video struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:512;not null" json:"title"`
	YoutubeID string    `gorm:"size:64;index;not null" json:"youtubeId"`
	Pinned    bool      `gorm:"not null;default:false" json:"pinned"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	CreatedBy string    `gorm:"size:36" json:"createdBy"`
}

// BeforeCreate assigns an id.
func (v *Video) BeforeCreate(_ *gorm.DB) error {
	v.ID = ensureID(v.ID)
	return nil
}

// PdfDocument is the metadata of an uploaded PDF. The bytes live in file storage under FileKey.
type PdfDocument struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:512;not null" json:"title"`
	FileKey     string    `gorm:"size:1024;not null" json:"fileKey"`
	Filename    string    `gorm:"size:512;not null" json:"filename"`
	ContentType string    `gorm:"size:255;not null" json:"contentType"`
	Size        int64     `gorm:"not null" json:"size"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	CreatedBy   string    `gorm:"size:36" json:"createdBy"`

	// DownloadURL is computed per listing and never stored.
	DownloadURL string `gorm:"-" json:"downloadUrl,omitempty"`
}

// BeforeCreate assigns an id.
func (p *PdfDocument) BeforeCreate(_ *gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Phone     *string   `gorm:"size:64" json:"phone,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns an id.
func (m *ContactMessage) BeforeCreate(_ *gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// All lists every model for migrations.
func All() []any {
	return []any{
		&User{},
		&Setting{},
		&Link{},
		&Video{},
		&PdfDocument{},
		&ContactMessage{},
	}
}
