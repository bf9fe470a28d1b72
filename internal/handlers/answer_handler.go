package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
)

// AnswerHandler handles HTTP requests related to answers
type AnswerHandler struct {
	answerRepository       repositories.AnswerRepository
	questionRepository     repositories.QuestionRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	questionLocks          keyedMutex
}

// NewAnswerHandler creates a new AnswerHandler
func NewAnswerHandler(
	answerRepo repositories.AnswerRepository,
	questionRepo repositories.QuestionRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *AnswerHandler {
	return &AnswerHandler{
		answerRepository:       answerRepo,
		questionRepository:     questionRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterPublicAnswerRoutes registers the answer routes that do not require
// authentication
func (h *AnswerHandler) RegisterPublicAnswerRoutes(g *echo.Group) {
	g.GET("/answers/question/:questionId", h.GetAnswersForQuestion)
}

// RegisterAnswerRoutes registers the authenticated answer routes
func (h *AnswerHandler) RegisterAnswerRoutes(g *echo.Group) {
	g.POST("/answers", h.CreateAnswer)
	g.POST("/answers/:id/vote", h.VoteAnswer)
	g.POST("/answers/:id/accept", h.AcceptAnswer)
}

// GetAnswersForQuestion returns all answers to a question, best-voted first
func (h *AnswerHandler) GetAnswersForQuestion(c echo.Context) error {
	answers, err := h.answerRepository.GetAnswersByQuestionID(c.Request().Context(), c.Param("questionId"))
	if err != nil {
		return httpError(err)
	}

	h.attachAuthors(answers)
	return c.JSON(http.StatusOK, answers)
}

// CreateAnswer handles posting an answer and notifying the question author
func (h *AnswerHandler) CreateAnswer(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), req.QuestionID)
	if err != nil {
		return httpError(err)
	}

	author, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return httpError(err)
	}

	answer := &models.Answer{
		Content:    req.Content,
		AuthorID:   userID,
		QuestionID: question.ID,
	}
	if err := h.answerRepository.CreateAnswer(c.Request().Context(), answer); err != nil {
		return httpError(err)
	}

	if err := h.questionRepository.AppendAnswerID(c.Request().Context(), req.QuestionID, answer.ID); err != nil {
		log.Printf("failed to attach answer %s to question %s: %v", answer.ID.Hex(), req.QuestionID, err)
	}
	if err := h.userRepository.IncrementAnswersGiven(userID); err != nil {
		log.Printf("failed to increment answers_given for user %d: %v", userID, err)
	}

	// Notify the question author, unless they answered their own question.
	// The answer stands even if the insert fails; delivery is best-effort.
	if question.AuthorID != userID {
		notification := &models.Notification{
			RecipientID: question.AuthorID,
			SenderID:    userID,
			Type:        models.NotificationTypeAnswer,
			Message:     fmt.Sprintf("%s answered your question: %s", author.Name, question.Title),
			QuestionID:  question.ID.Hex(),
			AnswerID:    answer.ID.Hex(),
		}
		if err := h.notificationRepository.CreateNotification(notification); err != nil {
			log.Printf("failed to create answer notification for user %d: %v", question.AuthorID, err)
		}
	}

	summary := author.Summary()
	answer.Author = &summary
	return c.JSON(http.StatusCreated, answer)
}

// VoteAnswer applies one vote transition to the answer's ledger, with the
// same versioned retry loop as question votes.
func (h *AnswerHandler) VoteAnswer(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	answerID := c.Param("id")
	var lastErr error
	for attempt := 0; attempt < voteRetries; attempt++ {
		answer, err := h.answerRepository.GetAnswerByID(c.Request().Context(), answerID)
		if err != nil {
			return httpError(err)
		}

		tally, err := answer.ApplyVote(userID, req.VoteType)
		if err != nil {
			return httpError(err)
		}

		err = h.answerRepository.UpdateVotes(c.Request().Context(), answerID, answer.Version, answer.Voters, tally)
		if err == nil {
			return c.JSON(http.StatusOK, echo.Map{"votes": tally})
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return httpError(err)
		}
		lastErr = err
	}
	return httpError(lastErr)
}

// AcceptAnswer marks the answer as the question's accepted solution. Only
// the question author may accept; the clear-then-set sequence runs under
// the per-question lock so at most one answer ends up accepted.
func (h *AnswerHandler) AcceptAnswer(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	answer, err := h.answerRepository.GetAnswerByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), answer.QuestionID.Hex())
	if err != nil {
		return httpError(err)
	}
	if question.AuthorID != userID {
		return httpError(fmt.Errorf("%w: only the question author can accept answers", apperrors.ErrForbidden))
	}

	unlock := h.questionLocks.Lock(question.ID.Hex())
	defer unlock()

	if err := h.answerRepository.ClearAccepted(c.Request().Context(), question.ID); err != nil {
		return httpError(err)
	}
	if err := h.answerRepository.MarkAccepted(c.Request().Context(), answer.ID, question.ID); err != nil {
		return httpError(err)
	}
	if err := h.questionRepository.SetAcceptedAnswer(c.Request().Context(), question.ID.Hex(), answer.ID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Answer accepted successfully"})
}

// attachAuthors fills in author summaries, caching lookups across the list
func (h *AnswerHandler) attachAuthors(answers []models.Answer) {
	summaries := make(map[uint]models.UserSummary)
	for i := range answers {
		authorID := answers[i].AuthorID
		summary, ok := summaries[authorID]
		if !ok {
			user, err := h.userRepository.GetUserByID(authorID)
			if err != nil {
				continue
			}
			summary = user.Summary()
			summaries[authorID] = summary
		}
		s := summary
		answers[i].Author = &s
	}
}
