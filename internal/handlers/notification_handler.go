package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
)

// notificationPageSize matches the fixed window the client renders.
const notificationPageSize = 20

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/mark-all-read", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns the recipient's latest notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifications, err := h.notificationRepository.GetByRecipientID(userID, notificationPageSize)
	if err != nil {
		return httpError(err)
	}

	h.attachSenders(notifications)
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the recipient's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the recipient's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkAsRead(uint(notificationID), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks all of the recipient's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification removes one of the recipient's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.DeleteNotification(uint(notificationID), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}

// attachSenders fills in sender summaries, caching lookups across the list
func (h *NotificationHandler) attachSenders(notifications []models.Notification) {
	summaries := make(map[uint]models.UserSummary)
	for i := range notifications {
		senderID := notifications[i].SenderID
		summary, ok := summaries[senderID]
		if !ok {
			user, err := h.userRepository.GetUserByID(senderID)
			if err != nil {
				continue
			}
			summary = user.Summary()
			summaries[senderID] = summary
		}
		s := summary
		notifications[i].Sender = &s
	}
}
