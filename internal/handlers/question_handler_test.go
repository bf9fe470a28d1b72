package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
	"github.com/stackit-dev/stackit/backend/internal/repositories/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newQuestionHandler() (*QuestionHandler, *mocks.MockQuestionRepository, *mocks.MockUserRepository) {
	questionRepo := new(mocks.MockQuestionRepository)
	userRepo := new(mocks.MockUserRepository)
	return NewQuestionHandler(questionRepo, userRepo), questionRepo, userRepo
}

func TestListQuestions_Pagination(t *testing.T) {
	h, questionRepo, userRepo := newQuestionHandler()

	// 25 matching records, page 2 of 10: skip 10, expect totalPages 3.
	pageQuestions := make([]models.Question, 10)
	for i := range pageQuestions {
		pageQuestions[i] = models.Question{ID: primitive.NewObjectID(), Title: fmt.Sprintf("Question %d", 11+i), AuthorID: 1}
	}
	questionRepo.On("ListQuestions", mock.Anything, repositories.QuestionListOptions{
		Sort:  models.SortNewest,
		Skip:  10,
		Limit: 10,
	}).Return(pageQuestions, int64(25), nil)
	userRepo.On("GetUserByID", uint(1)).Return(&models.User{ID: 1, Name: "Ada", Username: "ada"}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/questions?page=2&limit=10", "", 0)
	require.NoError(t, h.ListQuestions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp questionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, 10)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, "ada", resp.Questions[0].Author.Username)
}

func TestListQuestions_FiltersPassedThrough(t *testing.T) {
	h, questionRepo, _ := newQuestionHandler()

	questionRepo.On("ListQuestions", mock.Anything, repositories.QuestionListOptions{
		Search: "goroutine",
		Tag:    "go",
		Sort:   models.SortVotes,
		Skip:   0,
		Limit:  10,
	}).Return([]models.Question{}, int64(0), nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/questions?search=goroutine&tag=go&sort=votes", "", 0)
	require.NoError(t, h.ListQuestions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	questionRepo.AssertExpectations(t)
}

func TestGetQuestion_CountsView(t *testing.T) {
	h, questionRepo, userRepo := newQuestionHandler()

	question := &models.Question{ID: primitive.NewObjectID(), Title: "How do channels work?", AuthorID: 3, Views: 8}
	questionRepo.On("GetQuestionAndIncrementViews", mock.Anything, question.ID.Hex()).Return(question, nil)
	userRepo.On("GetUserByID", uint(3)).Return(&models.User{ID: 3, Name: "Kim", Username: "kim"}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/questions/"+question.ID.Hex(), "", 0)
	c.SetParamNames("id")
	c.SetParamValues(question.ID.Hex())
	require.NoError(t, h.GetQuestion(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got models.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(8), got.Views)
	assert.Equal(t, "kim", got.Author.Username)
}

func TestGetQuestion_NotFound(t *testing.T) {
	h, questionRepo, _ := newQuestionHandler()

	questionRepo.On("GetQuestionAndIncrementViews", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: question missing", apperrors.ErrNotFound))

	c, _ := newTestContext(t, http.MethodGet, "/api/questions/missing", "", 0)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.GetQuestion(c)
	assert.Equal(t, http.StatusNotFound, httpStatusOf(t, err))
}

func TestCreateQuestion_ValidationBounds(t *testing.T) {
	h, _, _ := newQuestionHandler()

	// Title below the 10-character floor.
	body := `{"title":"short","content":"This content is long enough to pass.","tags":["go"]}`
	c, _ := newTestContext(t, http.MethodPost, "/api/questions", body, 1)

	err := h.CreateQuestion(c)
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
}

func TestCreateQuestion_IncrementsAskedCounter(t *testing.T) {
	h, questionRepo, userRepo := newQuestionHandler()

	userRepo.On("GetUserByID", uint(9)).Return(&models.User{ID: 9, Name: "Jo", Username: "jo"}, nil)
	questionRepo.On("CreateQuestion", mock.Anything, mock.MatchedBy(func(q *models.Question) bool {
		return q.Title == "How do I test Echo handlers?" && q.AuthorID == 9 && len(q.Tags) == 2
	})).Return(nil)
	userRepo.On("IncrementQuestionsAsked", uint(9)).Return(nil)

	body := `{"title":"How do I test Echo handlers?","content":"Looking for the idiomatic httptest setup.","tags":["go","echo"]}`
	c, rec := newTestContext(t, http.MethodPost, "/api/questions", body, 9)
	require.NoError(t, h.CreateQuestion(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	userRepo.AssertCalled(t, "IncrementQuestionsAsked", uint(9))
}

func TestVoteQuestion_Cast(t *testing.T) {
	h, questionRepo, _ := newQuestionHandler()

	question := &models.Question{ID: primitive.NewObjectID(), AuthorID: 1, Version: 4}
	id := question.ID.Hex()
	questionRepo.On("GetQuestionByID", mock.Anything, id).Return(question, nil)
	questionRepo.On("UpdateVotes", mock.Anything, id, int64(4),
		[]models.Voter{{UserID: 42, Vote: models.VoteUp}}, 1).Return(nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/questions/"+id+"/vote", `{"voteType":"up"}`, 42)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.VoteQuestion(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"votes":1}`, rec.Body.String())
}

func TestVoteQuestion_InvalidDirection(t *testing.T) {
	h, questionRepo, _ := newQuestionHandler()

	question := &models.Question{ID: primitive.NewObjectID(), AuthorID: 1}
	id := question.ID.Hex()
	questionRepo.On("GetQuestionByID", mock.Anything, id).Return(question, nil)

	c, _ := newTestContext(t, http.MethodPost, "/api/questions/"+id+"/vote", `{"voteType":"sideways"}`, 42)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.VoteQuestion(c)
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
	questionRepo.AssertNotCalled(t, "UpdateVotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVoteQuestion_RetriesOnConflict(t *testing.T) {
	h, questionRepo, _ := newQuestionHandler()

	objID := primitive.NewObjectID()
	id := objID.Hex()
	conflict := fmt.Errorf("%w: question %s changed concurrently", apperrors.ErrConflict, id)

	// First read at version 4 loses the race; the re-read at version 5 wins.
	questionRepo.On("GetQuestionByID", mock.Anything, id).
		Return(&models.Question{ID: objID, Version: 4}, nil).Once()
	questionRepo.On("UpdateVotes", mock.Anything, id, int64(4), mock.Anything, 1).
		Return(conflict).Once()
	questionRepo.On("GetQuestionByID", mock.Anything, id).
		Return(&models.Question{ID: objID, Version: 5}, nil).Once()
	questionRepo.On("UpdateVotes", mock.Anything, id, int64(5), mock.Anything, 1).
		Return(nil).Once()

	c, rec := newTestContext(t, http.MethodPost, "/api/questions/"+id+"/vote", `{"voteType":"up"}`, 42)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.VoteQuestion(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	questionRepo.AssertExpectations(t)
}

func TestVoteQuestion_ConflictAfterRetries(t *testing.T) {
	h, questionRepo, _ := newQuestionHandler()

	objID := primitive.NewObjectID()
	id := objID.Hex()
	conflict := fmt.Errorf("%w: question %s changed concurrently", apperrors.ErrConflict, id)

	// Every re-read returns a fresh copy still at version 4; every write
	// keeps losing the race.
	for i := 0; i < voteRetries; i++ {
		questionRepo.On("GetQuestionByID", mock.Anything, id).
			Return(&models.Question{ID: objID, Version: 4}, nil).Once()
	}
	questionRepo.On("UpdateVotes", mock.Anything, id, int64(4), mock.Anything, 1).Return(conflict)

	c, _ := newTestContext(t, http.MethodPost, "/api/questions/"+id+"/vote", `{"voteType":"up"}`, 42)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.VoteQuestion(c)
	assert.Equal(t, http.StatusConflict, httpStatusOf(t, err))
	questionRepo.AssertNumberOfCalls(t, "UpdateVotes", voteRetries)
}

func TestVoteQuestion_Unauthenticated(t *testing.T) {
	h, _, _ := newQuestionHandler()

	c, _ := newTestContext(t, http.MethodPost, "/api/questions/abc/vote", `{"voteType":"up"}`, 0)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.VoteQuestion(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
}
