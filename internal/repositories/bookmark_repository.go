package repositories

import (
	"github.com/inkwell-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	CreateBookmark(bookmark *models.Bookmark) (bool, error)
	DeleteBookmark(userID uint, storyID string) (bool, error)
	IsBookmarked(userID uint, storyID string) (bool, error)
	GetBookmarksByUser(userID uint) ([]models.Bookmark, error)
}

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) CreateBookmark(bookmark *models.Bookmark) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresBookmarkRepository) DeleteBookmark(userID uint, storyID string) (bool, error) {
	res := r.db.Where("user_id = ? AND story_id = ?", userID, storyID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresBookmarkRepository) IsBookmarked(userID uint, storyID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND story_id = ?", userID, storyID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) GetBookmarksByUser(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, err
}
