// controllers/notification_controller.go
package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/repositories"
)

// NotificationController serves a member's in-app notifications.
type NotificationController struct {
	notifications *repositories.NotificationRepository
	logger        *log.Logger
}

// NewNotificationController creates a new notification controller
func NewNotificationController(notifications *repositories.NotificationRepository) *NotificationController {
	return &NotificationController{
		notifications: notifications,
		logger:        log.New(os.Stdout, "[NOTIF] ", log.LstdFlags),
	}
}

// List returns the caller's notifications, newest first.
func (nc *NotificationController) List(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	notifications, err := nc.notifications.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		nc.logger.Printf("Notification listing failed for %s: %v", user.Phone, err)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkRead flags one of the caller's notifications as read.
func (nc *NotificationController) MarkRead(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid notification ID")
	}

	if err := nc.notifications.MarkRead(c.Request().Context(), id, user.ID); err != nil {
		return fail(c, http.StatusNotFound, "Notification not found")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}
