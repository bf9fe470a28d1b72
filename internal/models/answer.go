package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer represents an answer document stored in MongoDB
type Answer struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Content    string             `json:"content" bson:"content"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	QuestionID primitive.ObjectID `json:"question_id" bson:"question_id"`
	VoteLedger `bson:",inline"`
	// IsAccepted is true on at most one answer per question, mirrored by
	// the question's accepted_answer field.
	IsAccepted bool      `json:"is_accepted" bson:"is_accepted"`
	Version    int64     `json:"-" bson:"version"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`

	// Author is filled in by handlers from the user store, never persisted.
	Author *UserSummary `json:"author,omitempty" bson:"-"`
	// QuestionTitle is filled in for profile listings only.
	QuestionTitle string `json:"question_title,omitempty" bson:"-"`
}

// CreateAnswerRequest defines the request body for posting an answer
type CreateAnswerRequest struct {
	Content    string `json:"content" validate:"required,min=20"`
	QuestionID string `json:"questionId" validate:"required"`
}
