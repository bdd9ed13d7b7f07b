package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/notify"
	"github.com/Anilsharma012/myProperty-sub000/internal/packagesync"
)

// APIHandlers provides the polling surface for offline catch-up: the same
// domain objects the live channels push, fetched over plain HTTP.
type APIHandlers struct {
	notifications *notify.Service
	packages      *packagesync.Service
	log           *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(notifications *notify.Service, packages *packagesync.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		notifications: notifications,
		packages:      packages,
		log:           logger,
	}
}

// MarkReadRequest is the body for marking a notification read.
type MarkReadRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListNotifications handles the notification catch-up fetch.
// GET /api/notifications?userId=
func (h *APIHandlers) ListNotifications(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "userId is required"})
		return
	}

	items, err := h.notifications.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("list notifications")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "failed to list notifications"})
		return
	}

	c.JSON(stdhttp.StatusOK, gin.H{"notifications": notificationsToDTO(items)})
}

// MarkNotificationRead flips the read flag. Idempotent: repeating the call
// succeeds without error.
// POST /api/notifications/:id/read
func (h *APIHandlers) MarkNotificationRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	id := c.Param("id")
	if err := h.notifications.MarkRead(c.Request.Context(), req.UserID, id); err != nil {
		h.log.Error().Err(err).Str("notification_id", id).Msg("mark notification read")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "failed to mark read"})
		return
	}

	c.JSON(stdhttp.StatusOK, gin.H{"read": true})
}

// ListUserPackages handles the user-package catch-up fetch.
// GET /api/user-packages?userId=
func (h *APIHandlers) ListUserPackages(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "userId is required"})
		return
	}

	items, err := h.packages.ListUserPackages(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("list user packages")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "failed to list user packages"})
		return
	}

	c.JSON(stdhttp.StatusOK, gin.H{"userPackages": userPackagesToDTO(items)})
}
