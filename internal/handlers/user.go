package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
	"github.com/stackit-dev/stackit/backend/pkg/cache"
)

const (
	profileFeedLimit = 10
	leaderboardSize  = 20
	leaderboardKey   = "users:leaderboard"
	leaderboardTTL   = 60 * time.Second
)

// UserHandler handles user profile and leaderboard HTTP requests
type UserHandler struct {
	userRepository     repositories.UserRepository
	questionRepository repositories.QuestionRepository
	answerRepository   repositories.AnswerRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, questionRepo repositories.QuestionRepository, answerRepo repositories.AnswerRepository) *UserHandler {
	return &UserHandler{
		userRepository:     userRepo,
		questionRepository: questionRepo,
		answerRepository:   answerRepo,
	}
}

// RegisterPublicUserRoutes registers the user routes that do not require
// authentication
func (h *UserHandler) RegisterPublicUserRoutes(g *echo.Group) {
	g.GET("/users/profile/:id", h.GetProfile)
	g.GET("/users/leaderboard", h.GetLeaderboard)
}

// RegisterUserRoutes registers the authenticated user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.PUT("/users/profile", h.UpdateProfile)
}

// GetProfile returns a user with their latest questions and answers
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		return httpError(err)
	}

	questions, err := h.questionRepository.GetQuestionsByAuthor(c.Request().Context(), user.ID, profileFeedLimit)
	if err != nil {
		return httpError(err)
	}

	answers, err := h.answerRepository.GetAnswersByAuthor(c.Request().Context(), user.ID, profileFeedLimit)
	if err != nil {
		return httpError(err)
	}

	// Profile answers carry their question's title, the way the detail
	// page links back to the question.
	titles := make(map[string]string)
	for i := range answers {
		qid := answers[i].QuestionID.Hex()
		title, ok := titles[qid]
		if !ok {
			question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), qid)
			if err != nil {
				continue
			}
			title = question.Title
			titles[qid] = title
		}
		answers[i].QuestionTitle = title
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":      user,
		"questions": questions,
		"answers":   answers,
	})
}

// UpdateProfile updates the authenticated user's display name and handle
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	taken, err := h.userRepository.UsernameTakenByOther(req.Username, userID)
	if err != nil {
		return httpError(err)
	}
	if taken {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already taken")
	}

	user, err := h.userRepository.UpdateProfile(userID, req.Name, req.Username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetLeaderboard returns the top users by reputation, cache-aside
func (h *UserHandler) GetLeaderboard(c echo.Context) error {
	var users []models.User
	err := cache.CacheAside(c.Request().Context(), leaderboardKey, &users, leaderboardTTL, func() error {
		top, err := h.userRepository.GetLeaderboard(leaderboardSize)
		if err != nil {
			return err
		}
		users = top
		return nil
	})
	if err != nil {
		log.Printf("leaderboard cache path failed, reading store directly: %v", err)
		users, err = h.userRepository.GetLeaderboard(leaderboardSize)
		if err != nil {
			return httpError(err)
		}
	}
	return c.JSON(http.StatusOK, users)
}
