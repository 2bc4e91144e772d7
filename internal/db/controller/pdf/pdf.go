// Package pdf stores PDF document metadata.
package pdf

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/models"
)

// List returns every document, newest first.
func List(db *gorm.DB) ([]models.PdfDocument, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	docs := make([]models.PdfDocument, 0)
	if err := db.Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}

	return docs, nil
}

// Get returns the document with id.
func Get(db *gorm.DB, id string) (*models.PdfDocument, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if id == "" {
		return nil, controller.ErrIDEmpty
	}

	var doc models.PdfDocument
	if err := db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, controller.ErrNotFound
		}

		return nil, fmt.Errorf("get pdf %s: %w", id, err)
	}

	return &doc, nil
}

// Create stores doc and fills in its id and timestamp.
func Create(db *gorm.DB, doc *models.PdfDocument) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if err := db.Create(doc).Error; err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}

	return nil
}

// Delete removes the document with id and reports whether it existed.
func Delete(db *gorm.DB, id string) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	result := db.Where("id = ?", id).Delete(&models.PdfDocument{})
	if result.Error != nil {
		return false, fmt.Errorf("delete pdf %s: %w", id, result.Error)
	}

	return result.RowsAffected > 0, nil
}
