package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnswerRepository defines the interface for answer data operations
type AnswerRepository interface {
	CreateAnswer(ctx context.Context, answer *models.Answer) error
	GetAnswerByID(ctx context.Context, id string) (*models.Answer, error)
	// GetAnswersByQuestionID returns all answers, best-voted first,
	// newest first within a tally.
	GetAnswersByQuestionID(ctx context.Context, questionID string) ([]models.Answer, error)
	GetAnswersByAuthor(ctx context.Context, authorID uint, limit int64) ([]models.Answer, error)
	// UpdateVotes persists a new voter set and tally only if the stored
	// version still matches; a miss returns apperrors.ErrConflict.
	UpdateVotes(ctx context.Context, id string, version int64, voters []models.Voter, votes int) error
	// ClearAccepted resets is_accepted on every answer to the question.
	ClearAccepted(ctx context.Context, questionID primitive.ObjectID) error
	// MarkAccepted sets is_accepted on the answer, matching on both the
	// answer id and its question so a foreign answer can never be marked.
	MarkAccepted(ctx context.Context, answerID, questionID primitive.ObjectID) error
}

// MongoAnswerRepository implements AnswerRepository for MongoDB
type MongoAnswerRepository struct {
	collection *mongo.Collection
}

// NewMongoAnswerRepository creates a new MongoAnswerRepository
func NewMongoAnswerRepository(db *mongo.Database) *MongoAnswerRepository {
	return &MongoAnswerRepository{collection: db.Collection("answers")}
}

func answerObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid answer ID %q", apperrors.ErrNotFound, id)
	}
	return objID, nil
}

// CreateAnswer creates a new answer in MongoDB
func (r *MongoAnswerRepository) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	answer.ID = primitive.NewObjectID()
	answer.CreatedAt = time.Now()
	answer.UpdatedAt = answer.CreatedAt
	if answer.Voters == nil {
		answer.Voters = []models.Voter{}
	}
	if _, err := r.collection.InsertOne(ctx, answer); err != nil {
		return fmt.Errorf("%w: insert answer: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// GetAnswerByID retrieves an answer by ID from MongoDB
func (r *MongoAnswerRepository) GetAnswerByID(ctx context.Context, id string) (*models.Answer, error) {
	objID, err := answerObjectID(id)
	if err != nil {
		return nil, err
	}

	var answer models.Answer
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&answer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: answer %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find answer: %v", apperrors.ErrUnavailable, err)
	}
	return &answer, nil
}

// GetAnswersByQuestionID retrieves all answers to a question
func (r *MongoAnswerRepository) GetAnswersByQuestionID(ctx context.Context, questionID string) ([]models.Answer, error) {
	objID, err := questionObjectID(questionID)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "votes", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"question_id": objID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: list answers: %v", apperrors.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	answers := []models.Answer{}
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("%w: decode answers: %v", apperrors.ErrUnavailable, err)
	}
	return answers, nil
}

// GetAnswersByAuthor retrieves the author's latest answers
func (r *MongoAnswerRepository) GetAnswersByAuthor(ctx context.Context, authorID uint, limit int64) ([]models.Answer, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: list answers by author: %v", apperrors.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	answers := []models.Answer{}
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("%w: decode answers: %v", apperrors.ErrUnavailable, err)
	}
	return answers, nil
}

// UpdateVotes writes the voter set and tally with a compare-and-swap on the
// version field. The caller re-reads and retries on ErrConflict.
func (r *MongoAnswerRepository) UpdateVotes(ctx context.Context, id string, version int64, voters []models.Voter, votes int) error {
	objID, err := answerObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "version": version},
		bson.M{
			"$set": bson.M{"voters": voters, "votes": votes, "updated_at": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: update answer votes: %v", apperrors.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: answer %s changed concurrently", apperrors.ErrConflict, id)
	}
	return nil
}

// ClearAccepted resets is_accepted on every answer to the question
func (r *MongoAnswerRepository) ClearAccepted(ctx context.Context, questionID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"question_id": questionID},
		bson.M{"$set": bson.M{"is_accepted": false}},
	)
	if err != nil {
		return fmt.Errorf("%w: clear accepted answers: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// MarkAccepted sets is_accepted on the answer within its question
func (r *MongoAnswerRepository) MarkAccepted(ctx context.Context, answerID, questionID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": answerID, "question_id": questionID},
		bson.M{"$set": bson.M{"is_accepted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: mark accepted answer: %v", apperrors.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: answer %s for question %s", apperrors.ErrNotFound, answerID.Hex(), questionID.Hex())
	}
	return nil
}
