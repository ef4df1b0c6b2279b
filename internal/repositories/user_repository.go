package repositories

import (
	"github.com/inkwell-social/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	IncrementFollowersCount(id uint) error
	DecrementFollowersCount(id uint) error
	IncrementFollowingCount(id uint) error
	DecrementFollowingCount(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser deletes a user by ID from PostgreSQL
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

func (r *PostgresUserRepository) IncrementFollowersCount(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
}

func (r *PostgresUserRepository) DecrementFollowersCount(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ? AND followers_count > 0", id).
		UpdateColumn("followers_count", gorm.Expr("followers_count - 1")).Error
}

func (r *PostgresUserRepository) IncrementFollowingCount(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error
}

func (r *PostgresUserRepository) DecrementFollowingCount(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ? AND following_count > 0", id).
		UpdateColumn("following_count", gorm.Expr("following_count - 1")).Error
}
