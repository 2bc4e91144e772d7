// Package video stores YouTube videos and the single pinned marker.
package video

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/models"
)

// List returns every video, newest first.
func List(db *gorm.DB) ([]models.Video, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	videos := make([]models.Video, 0)
	if err := db.Order("created_at desc").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	return videos, nil
}

// Get returns the video with id.
func Get(db *gorm.DB, id string) (*models.Video, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if id == "" {
		return nil, controller.ErrIDEmpty
	}

	var v models.Video
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, controller.ErrNotFound
		}

		return nil, fmt.Errorf("get video %s: %w", id, err)
	}

	return &v, nil
}

// Create stores v and fills in its id and timestamp. New videos are never pinned.
func Create(db *gorm.DB, v *models.Video) error {
	if db == nil {
		return controller.ErrDBNil
	}

	v.Pinned = false

	if err := db.Create(v).Error; err != nil {
		return fmt.Errorf("create video: %w", err)
	}

	return nil
}

// Delete removes the video with id and reports whether it existed.
func Delete(db *gorm.DB, id string) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	if id == "" {
		return false, nil
	}

	result := db.Where("id = ?", id).Delete(&models.Video{})
	if result.Error != nil {
		return false, fmt.Errorf("delete video %s: %w", id, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Pin clears the pinned flag on every video and sets it on id.
// The two writes are not atomic: concurrent pins may leave zero or two pinned videos.
func Pin(db *gorm.DB, id string) (*models.Video, error) {
	v, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err = db.Model(&models.Video{}).Where("pinned = ?", true).Update("pinned", false).Error; err != nil {
		return nil, fmt.Errorf("clear pinned videos: %w", err)
	}

	result := db.Model(v).Update("pinned", true)
	if result.Error != nil {
		return nil, fmt.Errorf("pin video %s: %w", id, result.Error)
	}

	// deleted since Get
	if result.RowsAffected == 0 {
		return nil, controller.ErrNotFound
	}

	v.Pinned = true

	return v, nil
}

// Unpin clears the pinned flag on id.
func Unpin(db *gorm.DB, id string) (*models.Video, error) {
	v, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err = db.Model(v).Update("pinned", false).Error; err != nil {
		return nil, fmt.Errorf("unpin video %s: %w", id, err)
	}

	v.Pinned = false

	return v, nil
}
