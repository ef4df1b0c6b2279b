package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model     `json:"-"`
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name"`
	Email          string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatar_url"`
	Password       string `json:"-"` // Store hashed password, ignore for JSON serialization
	FollowersCount int    `json:"followers_count" gorm:"default:0"`
	FollowingCount int    `json:"following_count" gorm:"default:0"`
	FCMToken       string `json:"-"` // Device push token, empty when the client never registered one
}

// UserCompact is the slim sender/author shape inlined into notifications and messages.
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact returns the compact representation of the user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	FCMToken  string `json:"fcm_token,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
