// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockQuestionRepository mocks repositories.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionAndIncrementViews(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListQuestions(ctx context.Context, opts repositories.QuestionListOptions) ([]models.Question, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetQuestionsByAuthor(ctx context.Context, authorID uint, limit int64) ([]models.Question, error) {
	args := m.Called(ctx, authorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) UpdateVotes(ctx context.Context, id string, version int64, voters []models.Voter, votes int) error {
	args := m.Called(ctx, id, version, voters, votes)
	return args.Error(0)
}

func (m *MockQuestionRepository) AppendAnswerID(ctx context.Context, questionID string, answerID primitive.ObjectID) error {
	args := m.Called(ctx, questionID, answerID)
	return args.Error(0)
}

func (m *MockQuestionRepository) SetAcceptedAnswer(ctx context.Context, questionID string, answerID primitive.ObjectID) error {
	args := m.Called(ctx, questionID, answerID)
	return args.Error(0)
}

// MockAnswerRepository mocks repositories.AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetAnswerByID(ctx context.Context, id string) (*models.Answer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetAnswersByQuestionID(ctx context.Context, questionID string) ([]models.Answer, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetAnswersByAuthor(ctx context.Context, authorID uint, limit int64) ([]models.Answer, error) {
	args := m.Called(ctx, authorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) UpdateVotes(ctx context.Context, id string, version int64, voters []models.Voter, votes int) error {
	args := m.Called(ctx, id, version, voters, votes)
	return args.Error(0)
}

func (m *MockAnswerRepository) ClearAccepted(ctx context.Context, questionID primitive.ObjectID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockAnswerRepository) MarkAccepted(ctx context.Context, answerID, questionID primitive.ObjectID) error {
	args := m.Called(ctx, answerID, questionID)
	return args.Error(0)
}

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameTakenByOther(username string, userID uint) (bool, error) {
	args := m.Called(username, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(id uint, name, username string) (*models.User, error) {
	args := m.Called(id, name, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) IncrementQuestionsAsked(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementAnswersGiven(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(limit int) ([]models.User, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockNotificationRepository mocks repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error) {
	args := m.Called(recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	args := m.Called(notificationID, recipientID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(recipientID uint) error {
	args := m.Called(recipientID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteNotification(notificationID, recipientID uint) error {
	args := m.Called(notificationID, recipientID)
	return args.Error(0)
}
