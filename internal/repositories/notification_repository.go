package repositories

import (
	"fmt"

	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Mutations are always scoped to the recipient so one user cannot touch
// another's notifications.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteNotification(notificationID, recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository
// backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("%w: create notification: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications: %v", apperrors.ErrUnavailable, err)
	}
	return notifications, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: unread count: %v", apperrors.ErrUnavailable, err)
	}
	return count, nil
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	err := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("%w: mark notification read: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("%w: mark all read: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

func (r *postgresNotificationRepository) DeleteNotification(notificationID, recipientID uint) error {
	res := r.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("%w: delete notification: %v", apperrors.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %d", apperrors.ErrNotFound, notificationID)
	}
	return nil
}
