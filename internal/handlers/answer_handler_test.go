package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAnswerHandler() (*AnswerHandler, *mocks.MockAnswerRepository, *mocks.MockQuestionRepository, *mocks.MockUserRepository, *mocks.MockNotificationRepository) {
	answerRepo := new(mocks.MockAnswerRepository)
	questionRepo := new(mocks.MockQuestionRepository)
	userRepo := new(mocks.MockUserRepository)
	notifRepo := new(mocks.MockNotificationRepository)
	h := NewAnswerHandler(answerRepo, questionRepo, userRepo, notifRepo)
	return h, answerRepo, questionRepo, userRepo, notifRepo
}

func TestCreateAnswer_NotifiesQuestionAuthor(t *testing.T) {
	h, answerRepo, questionRepo, userRepo, notifRepo := newAnswerHandler()

	questionID := primitive.NewObjectID()
	question := &models.Question{ID: questionID, Title: "How do channels work?", AuthorID: 1}
	questionRepo.On("GetQuestionByID", mock.Anything, questionID.Hex()).Return(question, nil)
	userRepo.On("GetUserByID", uint(2)).Return(&models.User{ID: 2, Name: "Bob", Username: "bob"}, nil)
	answerRepo.On("CreateAnswer", mock.Anything, mock.MatchedBy(func(a *models.Answer) bool {
		return a.AuthorID == 2 && a.QuestionID == questionID
	})).Return(nil)
	questionRepo.On("AppendAnswerID", mock.Anything, questionID.Hex(), mock.Anything).Return(nil)
	userRepo.On("IncrementAnswersGiven", uint(2)).Return(nil)
	notifRepo.On("CreateNotification", mock.MatchedBy(func(n *models.Notification) bool {
		return n.RecipientID == 1 &&
			n.SenderID == 2 &&
			n.Type == models.NotificationTypeAnswer &&
			n.Message == "Bob answered your question: How do channels work?" &&
			n.QuestionID == questionID.Hex()
	})).Return(nil)

	body := fmt.Sprintf(`{"content":"Channels are typed conduits for goroutines.","questionId":"%s"}`, questionID.Hex())
	c, rec := newTestContext(t, http.MethodPost, "/api/answers", body, 2)
	require.NoError(t, h.CreateAnswer(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	notifRepo.AssertExpectations(t)
	userRepo.AssertCalled(t, "IncrementAnswersGiven", uint(2))
}

func TestCreateAnswer_SelfAnswerProducesNoNotification(t *testing.T) {
	h, answerRepo, questionRepo, userRepo, notifRepo := newAnswerHandler()

	questionID := primitive.NewObjectID()
	question := &models.Question{ID: questionID, Title: "How do channels work?", AuthorID: 2}
	questionRepo.On("GetQuestionByID", mock.Anything, questionID.Hex()).Return(question, nil)
	userRepo.On("GetUserByID", uint(2)).Return(&models.User{ID: 2, Name: "Bob", Username: "bob"}, nil)
	answerRepo.On("CreateAnswer", mock.Anything, mock.Anything).Return(nil)
	questionRepo.On("AppendAnswerID", mock.Anything, questionID.Hex(), mock.Anything).Return(nil)
	userRepo.On("IncrementAnswersGiven", uint(2)).Return(nil)

	body := fmt.Sprintf(`{"content":"Answering my own question after figuring it out.","questionId":"%s"}`, questionID.Hex())
	c, rec := newTestContext(t, http.MethodPost, "/api/answers", body, 2)
	require.NoError(t, h.CreateAnswer(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	notifRepo.AssertNotCalled(t, "CreateNotification", mock.Anything)
}

func TestCreateAnswer_ContentTooShort(t *testing.T) {
	h, answerRepo, _, _, _ := newAnswerHandler()

	body := `{"content":"too short","questionId":"abc"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/answers", body, 2)

	err := h.CreateAnswer(c)
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
	answerRepo.AssertNotCalled(t, "CreateAnswer", mock.Anything, mock.Anything)
}

func TestVoteAnswer_Switch(t *testing.T) {
	h, answerRepo, _, _, _ := newAnswerHandler()

	objID := primitive.NewObjectID()
	id := objID.Hex()
	answer := &models.Answer{
		ID:      objID,
		Version: 2,
		VoteLedger: models.VoteLedger{
			Votes:  1,
			Voters: []models.Voter{{UserID: 42, Vote: models.VoteUp}},
		},
	}
	answerRepo.On("GetAnswerByID", mock.Anything, id).Return(answer, nil)
	answerRepo.On("UpdateVotes", mock.Anything, id, int64(2),
		[]models.Voter{{UserID: 42, Vote: models.VoteDown}}, -1).Return(nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/answers/"+id+"/vote", `{"voteType":"down"}`, 42)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.VoteAnswer(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"votes":-1}`, rec.Body.String())
}

func TestAcceptAnswer_Success(t *testing.T) {
	h, answerRepo, questionRepo, _, _ := newAnswerHandler()

	questionID := primitive.NewObjectID()
	answerID := primitive.NewObjectID()
	answer := &models.Answer{ID: answerID, QuestionID: questionID, AuthorID: 5}
	question := &models.Question{ID: questionID, AuthorID: 9}

	answerRepo.On("GetAnswerByID", mock.Anything, answerID.Hex()).Return(answer, nil)
	questionRepo.On("GetQuestionByID", mock.Anything, questionID.Hex()).Return(question, nil)
	answerRepo.On("ClearAccepted", mock.Anything, questionID).Return(nil)
	answerRepo.On("MarkAccepted", mock.Anything, answerID, questionID).Return(nil)
	questionRepo.On("SetAcceptedAnswer", mock.Anything, questionID.Hex(), answerID).Return(nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/answers/"+answerID.Hex()+"/accept", "", 9)
	c.SetParamNames("id")
	c.SetParamValues(answerID.Hex())
	require.NoError(t, h.AcceptAnswer(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Answer accepted successfully", resp["message"])
	answerRepo.AssertExpectations(t)
	questionRepo.AssertExpectations(t)
}

func TestAcceptAnswer_NonAuthorForbidden(t *testing.T) {
	h, answerRepo, questionRepo, _, _ := newAnswerHandler()

	questionID := primitive.NewObjectID()
	answerID := primitive.NewObjectID()
	answer := &models.Answer{ID: answerID, QuestionID: questionID, AuthorID: 5}
	question := &models.Question{ID: questionID, AuthorID: 9}

	answerRepo.On("GetAnswerByID", mock.Anything, answerID.Hex()).Return(answer, nil)
	questionRepo.On("GetQuestionByID", mock.Anything, questionID.Hex()).Return(question, nil)

	// Requester 5 answered the question but did not ask it.
	c, _ := newTestContext(t, http.MethodPost, "/api/answers/"+answerID.Hex()+"/accept", "", 5)
	c.SetParamNames("id")
	c.SetParamValues(answerID.Hex())

	err := h.AcceptAnswer(c)
	assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))

	// No state changes on a forbidden accept.
	answerRepo.AssertNotCalled(t, "ClearAccepted", mock.Anything, mock.Anything)
	answerRepo.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything, mock.Anything)
	questionRepo.AssertNotCalled(t, "SetAcceptedAnswer", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptAnswer_Reaccept(t *testing.T) {
	h, answerRepo, questionRepo, _, _ := newAnswerHandler()

	questionID := primitive.NewObjectID()
	answerID := primitive.NewObjectID()
	accepted := answerID
	answer := &models.Answer{ID: answerID, QuestionID: questionID, AuthorID: 5, IsAccepted: true}
	question := &models.Question{ID: questionID, AuthorID: 9, AcceptedAnswer: &accepted}

	answerRepo.On("GetAnswerByID", mock.Anything, answerID.Hex()).Return(answer, nil)
	questionRepo.On("GetQuestionByID", mock.Anything, questionID.Hex()).Return(question, nil)
	answerRepo.On("ClearAccepted", mock.Anything, questionID).Return(nil)
	answerRepo.On("MarkAccepted", mock.Anything, answerID, questionID).Return(nil)
	questionRepo.On("SetAcceptedAnswer", mock.Anything, questionID.Hex(), answerID).Return(nil)

	// Re-accepting the already accepted answer still runs the
	// clear-then-set sequence and lands in the same state.
	c, rec := newTestContext(t, http.MethodPost, "/api/answers/"+answerID.Hex()+"/accept", "", 9)
	c.SetParamNames("id")
	c.SetParamValues(answerID.Hex())
	require.NoError(t, h.AcceptAnswer(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	answerRepo.AssertExpectations(t)
}

func TestGetAnswersForQuestion(t *testing.T) {
	h, answerRepo, _, userRepo, _ := newAnswerHandler()

	questionID := primitive.NewObjectID()
	answers := []models.Answer{
		{ID: primitive.NewObjectID(), QuestionID: questionID, AuthorID: 1, VoteLedger: models.VoteLedger{Votes: 5}},
		{ID: primitive.NewObjectID(), QuestionID: questionID, AuthorID: 2, VoteLedger: models.VoteLedger{Votes: 2}},
	}
	answerRepo.On("GetAnswersByQuestionID", mock.Anything, questionID.Hex()).Return(answers, nil)
	userRepo.On("GetUserByID", uint(1)).Return(&models.User{ID: 1, Name: "Ada", Username: "ada"}, nil)
	userRepo.On("GetUserByID", uint(2)).Return(&models.User{ID: 2, Name: "Bob", Username: "bob"}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/answers/question/"+questionID.Hex(), "", 0)
	c.SetParamNames("questionId")
	c.SetParamValues(questionID.Hex())
	require.NoError(t, h.GetAnswersForQuestion(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []models.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ada", got[0].Author.Username)
	assert.Equal(t, "bob", got[1].Author.Username)
}
