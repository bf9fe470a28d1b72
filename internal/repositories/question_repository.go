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

// QuestionListOptions are the filters for listing questions
type QuestionListOptions struct {
	Search string // case-insensitive match against title or content
	Tag    string // single tag membership
	Sort   string // newest | oldest | votes | views
	Skip   int64
	Limit  int64
}

// QuestionRepository defines the interface for question data operations
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	// GetQuestionAndIncrementViews bumps the view counter atomically and
	// returns the updated document.
	GetQuestionAndIncrementViews(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context, opts QuestionListOptions) ([]models.Question, int64, error)
	GetQuestionsByAuthor(ctx context.Context, authorID uint, limit int64) ([]models.Question, error)
	// UpdateVotes persists a new voter set and tally only if the stored
	// version still matches; a miss returns apperrors.ErrConflict.
	UpdateVotes(ctx context.Context, id string, version int64, voters []models.Voter, votes int) error
	AppendAnswerID(ctx context.Context, questionID string, answerID primitive.ObjectID) error
	SetAcceptedAnswer(ctx context.Context, questionID string, answerID primitive.ObjectID) error
}

// MongoQuestionRepository implements QuestionRepository for MongoDB
type MongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new MongoQuestionRepository
func NewMongoQuestionRepository(db *mongo.Database) *MongoQuestionRepository {
	return &MongoQuestionRepository{collection: db.Collection("questions")}
}

func questionObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid question ID %q", apperrors.ErrNotFound, id)
	}
	return objID, nil
}

// CreateQuestion creates a new question in MongoDB
func (r *MongoQuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	question.ID = primitive.NewObjectID()
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt
	if question.Voters == nil {
		question.Voters = []models.Voter{}
	}
	if question.AnswerIDs == nil {
		question.AnswerIDs = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, question); err != nil {
		return fmt.Errorf("%w: insert question: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// GetQuestionByID retrieves a question by ID from MongoDB
func (r *MongoQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	objID, err := questionObjectID(id)
	if err != nil {
		return nil, err
	}

	var question models.Question
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: question %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find question: %v", apperrors.ErrUnavailable, err)
	}
	return &question, nil
}

// GetQuestionAndIncrementViews increments the view counter and returns the
// updated document in a single findAndModify round trip.
func (r *MongoQuestionRepository) GetQuestionAndIncrementViews(ctx context.Context, id string) (*models.Question, error) {
	objID, err := questionObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var question models.Question
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: question %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find question: %v", apperrors.ErrUnavailable, err)
	}
	return &question, nil
}

func questionSort(sort string) bson.D {
	switch sort {
	case models.SortOldest:
		return bson.D{{Key: "created_at", Value: 1}}
	case models.SortVotes:
		return bson.D{{Key: "votes", Value: -1}, {Key: "created_at", Value: -1}}
	case models.SortViews:
		return bson.D{{Key: "views", Value: -1}, {Key: "created_at", Value: -1}}
	default: // newest
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// ListQuestions retrieves a page of questions matching the filters plus the
// total match count for page-count computation.
func (r *MongoQuestionRepository) ListQuestions(ctx context.Context, opts QuestionListOptions) ([]models.Question, int64, error) {
	filter := bson.M{}
	if opts.Search != "" {
		regex := primitive.Regex{Pattern: opts.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"content": regex},
		}
	}
	if opts.Tag != "" {
		filter["tags"] = bson.M{"$in": bson.A{opts.Tag}}
	}

	findOptions := options.Find().
		SetSkip(opts.Skip).
		SetLimit(opts.Limit).
		SetSort(questionSort(opts.Sort))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list questions: %v", apperrors.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, 0, fmt.Errorf("%w: decode questions: %v", apperrors.ErrUnavailable, err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count questions: %v", apperrors.ErrUnavailable, err)
	}
	return questions, total, nil
}

// GetQuestionsByAuthor retrieves the author's latest questions
func (r *MongoQuestionRepository) GetQuestionsByAuthor(ctx context.Context, authorID uint, limit int64) ([]models.Question, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: list questions by author: %v", apperrors.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("%w: decode questions: %v", apperrors.ErrUnavailable, err)
	}
	return questions, nil
}

// UpdateVotes writes the voter set and tally with a compare-and-swap on the
// version field. The caller re-reads and retries on ErrConflict.
func (r *MongoQuestionRepository) UpdateVotes(ctx context.Context, id string, version int64, voters []models.Voter, votes int) error {
	objID, err := questionObjectID(id)
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
		return fmt.Errorf("%w: update question votes: %v", apperrors.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: question %s changed concurrently", apperrors.ErrConflict, id)
	}
	return nil
}

// AppendAnswerID attaches a newly created answer to the question
func (r *MongoQuestionRepository) AppendAnswerID(ctx context.Context, questionID string, answerID primitive.ObjectID) error {
	objID, err := questionObjectID(questionID)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"answer_ids": answerID}},
	)
	if err != nil {
		return fmt.Errorf("%w: append answer id: %v", apperrors.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: question %s", apperrors.ErrNotFound, questionID)
	}
	return nil
}

// SetAcceptedAnswer points the question at its accepted answer
func (r *MongoQuestionRepository) SetAcceptedAnswer(ctx context.Context, questionID string, answerID primitive.ObjectID) error {
	objID, err := questionObjectID(questionID)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"accepted_answer": answerID, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: set accepted answer: %v", apperrors.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: question %s", apperrors.ErrNotFound, questionID)
	}
	return nil
}
