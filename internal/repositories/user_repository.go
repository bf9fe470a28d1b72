package repositories

import (
	"errors"
	"fmt"

	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	// UsernameTakenByOther reports whether another user already owns the
	// username.
	UsernameTakenByOther(username string, userID uint) (bool, error)
	UpdateProfile(id uint, name, username string) (*models.User, error)
	IncrementQuestionsAsked(id uint) error
	IncrementAnswersGiven(id uint) error
	GetLeaderboard(limit int) ([]models.User, error)
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
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email or username already registered", apperrors.ErrConflict)
		}
		return fmt.Errorf("%w: create user: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find user: %v", apperrors.ErrUnavailable, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
		}
		return nil, fmt.Errorf("%w: find user: %v", apperrors.ErrUnavailable, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by unique handle from PostgreSQL
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, username)
		}
		return nil, fmt.Errorf("%w: find user: %v", apperrors.ErrUnavailable, err)
	}
	return &user, nil
}

// UsernameTakenByOther checks the unique-handle constraint before a profile
// update
func (r *PostgresUserRepository) UsernameTakenByOther(username string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: check username: %v", apperrors.ErrUnavailable, err)
	}
	return count > 0, nil
}

// UpdateProfile updates the user's display name and handle
func (r *PostgresUserRepository) UpdateProfile(id uint, name, username string) (*models.User, error) {
	updates := map[string]interface{}{"name": name, "username": username}
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: update profile: %v", apperrors.ErrUnavailable, err)
	}
	return r.GetUserByID(id)
}

// IncrementQuestionsAsked bumps the user's questions_asked counter
func (r *PostgresUserRepository) IncrementQuestionsAsked(id uint) error {
	err := r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("questions_asked", gorm.Expr("questions_asked + 1")).Error
	if err != nil {
		return fmt.Errorf("%w: increment questions_asked: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// IncrementAnswersGiven bumps the user's answers_given counter
func (r *PostgresUserRepository) IncrementAnswersGiven(id uint) error {
	err := r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("answers_given", gorm.Expr("answers_given + 1")).Error
	if err != nil {
		return fmt.Errorf("%w: increment answers_given: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// GetLeaderboard retrieves the top users by reputation
func (r *PostgresUserRepository) GetLeaderboard(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Select("id", "name", "username", "reputation", "questions_asked", "answers_given").
		Order("reputation DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", apperrors.ErrUnavailable, err)
	}
	return users, nil
}
