package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question represents a question document stored in MongoDB
type Question struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title          string               `json:"title" bson:"title"`
	Content        string               `json:"content" bson:"content"` // rich text HTML from the editor
	AuthorID       uint                 `json:"author_id" bson:"author_id"`
	Tags           []string             `json:"tags" bson:"tags"`
	VoteLedger     `bson:",inline"`
	Views          int64                `json:"views" bson:"views"`
	AnswerIDs      []primitive.ObjectID `json:"answer_ids" bson:"answer_ids"`
	AcceptedAnswer *primitive.ObjectID  `json:"accepted_answer,omitempty" bson:"accepted_answer,omitempty"`
	// Version guards the vote read-modify-write; every voter-set update is
	// conditioned on it and bumps it.
	Version   int64     `json:"-" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// Author is filled in by handlers from the user store, never persisted.
	Author *UserSummary `json:"author,omitempty" bson:"-"`
}

// CreateQuestionRequest defines the request body for posting a question
type CreateQuestionRequest struct {
	Title   string   `json:"title" validate:"required,min=10,max=200"`
	Content string   `json:"content" validate:"required,min=20"`
	Tags    []string `json:"tags" validate:"required,min=1,max=5,dive,required"`
}

// Question list sort keys
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortVotes  = "votes"
	SortViews  = "views"
)
