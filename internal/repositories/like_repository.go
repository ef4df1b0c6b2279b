package repositories

import (
	"github.com/inkwell-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) (bool, error)
	DeleteLike(storyID string, userID uint) (bool, error)
	HasUserLikedStory(storyID string, userID uint) (bool, error)
	GetLikesCountByStoryID(storyID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts the (story, user) like row. Returns false when the row
// already existed; the unique index absorbs concurrent duplicate requests so
// the caller only adjusts counters when a row was actually inserted.
func (r *PostgresLikeRepository) CreateLike(like *models.Like) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLike removes the like row. Returns false when there was nothing to delete.
func (r *PostgresLikeRepository) DeleteLike(storyID string, userID uint) (bool, error) {
	res := r.db.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedStory checks if a user has liked a specific story
func (r *PostgresLikeRepository) HasUserLikedStory(storyID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("story_id = ? AND user_id = ?", storyID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesCountByStoryID retrieves the count of likes for a specific story
func (r *PostgresLikeRepository) GetLikesCountByStoryID(storyID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("story_id = ?", storyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
