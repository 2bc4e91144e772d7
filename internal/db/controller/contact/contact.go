// Package contact stores messages from the public contact form.
package contact

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/models"
)

// Create stores m and fills in its id and timestamp.
func Create(db *gorm.DB, m *models.ContactMessage) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if m.Phone != nil && *m.Phone == "" {
		m.Phone = nil
	}

	if err := db.Create(m).Error; err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}

	return nil
}
