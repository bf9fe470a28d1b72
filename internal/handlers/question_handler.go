package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
	"github.com/stackit-dev/stackit/backend/pkg/cache"
)

// voteRetries bounds the re-read-and-reapply loop around the versioned vote
// write before the request fails with 409.
const voteRetries = 3

const questionFirstPageKey = "questions:firstpage"

// QuestionHandler handles HTTP requests related to questions
type QuestionHandler struct {
	questionRepository repositories.QuestionRepository
	userRepository     repositories.UserRepository
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(questionRepo repositories.QuestionRepository, userRepo repositories.UserRepository) *QuestionHandler {
	return &QuestionHandler{
		questionRepository: questionRepo,
		userRepository:     userRepo,
	}
}

// RegisterPublicQuestionRoutes registers the question routes that do not
// require authentication
func (h *QuestionHandler) RegisterPublicQuestionRoutes(g *echo.Group) {
	g.GET("/questions", h.ListQuestions)
	g.GET("/questions/:id", h.GetQuestion)
}

// RegisterQuestionRoutes registers the authenticated question routes
func (h *QuestionHandler) RegisterQuestionRoutes(g *echo.Group) {
	g.POST("/questions", h.CreateQuestion)
	g.POST("/questions/:id/vote", h.VoteQuestion)
}

// questionListResponse is the paginated listing payload
type questionListResponse struct {
	Questions   []models.Question `json:"questions"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Total       int64             `json:"total"`
}

// ListQuestions returns a filtered, sorted, offset-paginated question page
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	search := c.QueryParam("search")
	tag := c.QueryParam("tag")
	sort := c.QueryParam("sort")
	if sort == "" {
		sort = models.SortNewest
	}

	// The unfiltered front page is the hot path; serve it cache-aside.
	cacheable := page == 1 && limit == 10 && search == "" && tag == "" && sort == models.SortNewest
	if cacheable {
		var cached questionListResponse
		found, err := cache.GetJSON(c.Request().Context(), questionFirstPageKey, &cached)
		if err != nil {
			log.Printf("question page cache read failed: %v", err)
		} else if found {
			return c.JSON(http.StatusOK, cached)
		}
	}

	opts := repositories.QuestionListOptions{
		Search: search,
		Tag:    tag,
		Sort:   sort,
		Skip:   int64((page - 1) * limit),
		Limit:  int64(limit),
	}
	questions, total, err := h.questionRepository.ListQuestions(c.Request().Context(), opts)
	if err != nil {
		return httpError(err)
	}

	h.attachAuthors(questions)
	resp := questionListResponse{
		Questions:   questions,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		Total:       total,
	}

	if cacheable {
		if err := cache.SetJSON(c.Request().Context(), questionFirstPageKey, resp, 30*time.Second); err != nil {
			log.Printf("question page cache write failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetQuestion returns one question and counts the view
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
	question, err := h.questionRepository.GetQuestionAndIncrementViews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	if author, err := h.userRepository.GetUserByID(question.AuthorID); err == nil {
		summary := author.Summary()
		question.Author = &summary
	}
	return c.JSON(http.StatusOK, question)
}

// CreateQuestion handles posting a new question
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	author, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return httpError(err)
	}

	question := &models.Question{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		AuthorID: userID,
	}
	if err := h.questionRepository.CreateQuestion(c.Request().Context(), question); err != nil {
		return httpError(err)
	}

	if err := h.userRepository.IncrementQuestionsAsked(userID); err != nil {
		log.Printf("failed to increment questions_asked for user %d: %v", userID, err)
	}
	if err := cache.Delete(c.Request().Context(), questionFirstPageKey); err != nil {
		log.Printf("question page cache invalidation failed: %v", err)
	}

	summary := author.Summary()
	question.Author = &summary
	return c.JSON(http.StatusCreated, question)
}

// VoteQuestion applies one vote transition to the question's ledger. The
// read-modify-write is guarded by the document version; on a concurrent
// change it re-reads and re-applies before giving up with 409.
func (h *QuestionHandler) VoteQuestion(c echo.Context) error {
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

	questionID := c.Param("id")
	var lastErr error
	for attempt := 0; attempt < voteRetries; attempt++ {
		question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), questionID)
		if err != nil {
			return httpError(err)
		}

		tally, err := question.ApplyVote(userID, req.VoteType)
		if err != nil {
			return httpError(err)
		}

		err = h.questionRepository.UpdateVotes(c.Request().Context(), questionID, question.Version, question.Voters, tally)
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

// attachAuthors fills in author summaries, caching lookups across the page
func (h *QuestionHandler) attachAuthors(questions []models.Question) {
	summaries := make(map[uint]models.UserSummary)
	for i := range questions {
		authorID := questions[i].AuthorID
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
		questions[i].Author = &s
	}
}
