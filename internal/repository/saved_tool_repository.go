package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clarifyall/internal/model"
)

// SavedToolRepository defines bookmark persistence operations.
type SavedToolRepository interface {
	Save(ctx context.Context, userID, toolID uint) (created bool, err error)
	Unsave(ctx context.Context, userID, toolID uint) (removed bool, err error)
	HasSaved(ctx context.Context, userID, toolID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, page, size int) ([]model.SavedTool, int64, error)
}

type savedToolRepository struct {
	db *gorm.DB
}

// NewSavedToolRepository creates a new saved-tool repository.
func NewSavedToolRepository(db *gorm.DB) SavedToolRepository {
	return &savedToolRepository{db: db}
}

// Save inserts the bookmark. A duplicate-key violation means the pair
// already exists and is reported as created=false, not an error.
func (r *savedToolRepository) Save(ctx context.Context, userID, toolID uint) (bool, error) {
	saved := model.SavedTool{UserID: userID, ToolID: toolID}
	err := r.db.WithContext(ctx).Create(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Unsave deletes the bookmark and reports whether a row was removed.
func (r *savedToolRepository) Unsave(ctx context.Context, userID, toolID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND tool_id = ?", userID, toolID).
		Delete(&model.SavedTool{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasSaved is an existence test for the (user, tool) pair.
func (r *savedToolRepository) HasSaved(ctx context.Context, userID, toolID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SavedTool{}).
		Where("user_id = ? AND tool_id = ?", userID, toolID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser pages through a user's bookmarks, most recently saved first,
// with each tool's categories attached.
func (r *savedToolRepository) ListByUser(ctx context.Context, userID uint, page, size int) ([]model.SavedTool, int64, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.SavedTool{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var saved []model.SavedTool
	err := r.db.WithContext(ctx).
		Preload("Tool.Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Limit(size).
		Offset(page * size).
		Find(&saved).Error
	if err != nil {
		return nil, 0, err
	}
	return saved, total, nil
}
