package models

import "time"

// NotificationType enumerates the events a user can be notified about.
type NotificationType string

const (
	NotificationTypeAnswer  NotificationType = "answer"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeMention NotificationType = "mention"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index"`
	SenderID    uint             `json:"sender_id" gorm:"index"`
	Type        NotificationType `json:"type" gorm:"size:20;index"`
	Message     string           `json:"message"`
	QuestionID  string           `json:"question_id,omitempty"` // MongoDB hex id
	AnswerID    string           `json:"answer_id,omitempty"`   // MongoDB hex id
	Read        bool             `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`

	// Sender is filled in by handlers from the user store, never persisted.
	Sender *UserSummary `json:"sender,omitempty" gorm:"-"`
}
