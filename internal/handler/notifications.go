package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookwise/backend/internal/model"
)

type notificationPreferencesBody struct {
	EmailNotifications *bool                           `json:"email_notifications"`
	PushNotifications  *bool                           `json:"push_notifications"`
	NotificationTypes  map[model.NotificationType]bool `json:"notification_types"`
}

// HandleListNotifications returns a user's notifications, newest first.
func (h *Handler) HandleListNotifications(c *gin.Context) {
	userID := c.Param("user_id")

	unreadOnly := false
	if raw := c.Query("unread_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "Invalid unread_only parameter")
			return
		}
		unreadOnly = v
	}
	skip, limit, ok := parsePagination(c, 20, 100)
	if !ok {
		return
	}

	notifications, err := h.store.Notifications.ListForUser(c.Request.Context(), userID, unreadOnly, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// HandleMarkNotificationRead flips a notification's read flag.
func (h *Handler) HandleMarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	if err := h.store.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// HandleDeleteNotification removes a notification.
func (h *Handler) HandleDeleteNotification(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	if err := h.store.Notifications.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// HandleGetNotificationPreferences returns a user's delivery preferences,
// creating the all-enabled defaults on first access.
func (h *Handler) HandleGetNotificationPreferences(c *gin.Context) {
	userID := c.Param("user_id")

	prefs, err := h.store.Notifications.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandleUpdateNotificationPreferences merges delivery preference changes over
// the stored (or default) set.
func (h *Handler) HandleUpdateNotificationPreferences(c *gin.Context) {
	userID := c.Param("user_id")

	var req notificationPreferencesBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	for t := range req.NotificationTypes {
		if !t.Valid() {
			badRequest(c, "Unknown notification type: "+string(t))
			return
		}
	}

	prefs, err := h.store.Notifications.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.EmailNotifications != nil {
		prefs.EmailNotifications = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		prefs.PushNotifications = *req.PushNotifications
	}
	if req.NotificationTypes != nil {
		prefs.NotificationTypes = req.NotificationTypes
	}

	if err := h.store.Notifications.UpsertPreferences(c.Request.Context(), *prefs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
