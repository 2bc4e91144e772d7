// Package link stores anchor links.
package link

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/models"
)

// List returns every link, newest first.
func List(db *gorm.DB) ([]models.Link, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	links := make([]models.Link, 0)
	if err := db.Order("created_at desc").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	return links, nil
}

// Create stores l and fills in its id and timestamp.
func Create(db *gorm.DB, l *models.Link) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if err := db.Create(l).Error; err != nil {
		return fmt.Errorf("create link: %w", err)
	}

	return nil
}

// Delete removes the link with id and reports whether it existed.
func Delete(db *gorm.DB, id string) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	if id == "" {
		return false, nil
	}

	result := db.Where("id = ?", id).Delete(&models.Link{})
	if result.Error != nil {
		return false, fmt.Errorf("delete link %s: %w", id, result.Error)
	}

	return result.RowsAffected > 0, nil
}
