package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationHandler() (*NotificationHandler, *mocks.MockNotificationRepository, *mocks.MockUserRepository) {
	notifRepo := new(mocks.MockNotificationRepository)
	userRepo := new(mocks.MockUserRepository)
	return NewNotificationHandler(notifRepo, userRepo), notifRepo, userRepo
}

func TestGetNotifications_AttachesSenders(t *testing.T) {
	h, notifRepo, userRepo := newNotificationHandler()

	notifications := []models.Notification{
		{ID: 1, RecipientID: 7, SenderID: 2, Type: models.NotificationTypeAnswer, Message: "Bob answered your question: How do channels work?"},
		{ID: 2, RecipientID: 7, SenderID: 2, Type: models.NotificationTypeAnswer, Message: "Bob answered your question: What is a mutex?"},
	}
	notifRepo.On("GetByRecipientID", uint(7), notificationPageSize).Return(notifications, nil)
	userRepo.On("GetUserByID", uint(2)).Return(&models.User{ID: 2, Name: "Bob", Username: "bob"}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/notifications", "", 7)
	require.NoError(t, h.GetNotifications(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Sender.Username)
	// Both entries come from the same sender; the lookup is cached.
	userRepo.AssertNumberOfCalls(t, "GetUserByID", 1)
}

func TestGetUnreadCount(t *testing.T) {
	h, notifRepo, _ := newNotificationHandler()

	notifRepo.On("GetUnreadCount", uint(7)).Return(int64(3), nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/notifications/unread-count", "", 7)
	require.NoError(t, h.GetUnreadCount(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestMarkAsRead_ScopedToRecipient(t *testing.T) {
	h, notifRepo, _ := newNotificationHandler()

	notifRepo.On("MarkAsRead", uint(12), uint(7)).Return(nil)

	c, rec := newTestContext(t, http.MethodPut, "/api/notifications/12/read", "", 7)
	c.SetParamNames("id")
	c.SetParamValues("12")
	require.NoError(t, h.MarkAsRead(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	notifRepo.AssertExpectations(t)
}

func TestNotifications_RequireAuthentication(t *testing.T) {
	h, _, _ := newNotificationHandler()

	c, _ := newTestContext(t, http.MethodGet, "/api/notifications", "", 0)
	err := h.GetNotifications(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
}
