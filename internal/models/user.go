package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a registered account (PostgreSQL)
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Username       string    `json:"username" gorm:"uniqueIndex"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // bcrypt hash, never serialized
	Reputation     int       `json:"reputation" gorm:"default:0"`
	QuestionsAsked int       `json:"questions_asked" gorm:"default:0"`
	AnswersGiven   int       `json:"answers_given" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the author shape embedded in question/answer/notification
// responses.
type UserSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Summary returns the public author shape for this user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
