// controllers/response.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/models"
)

// respondError maps a domain error onto an HTTP response. Validation errors
// carry a message the user can act on; infrastructure failures collapse into
// a generic retry message so nothing internal leaks.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidPhoneFormat):
		return fail(c, http.StatusBadRequest, "Invalid phone number format")
	case errors.Is(err, models.ErrPhoneTaken):
		return fail(c, http.StatusConflict, "Phone number already registered")
	case errors.Is(err, models.ErrAccountNotFound):
		return fail(c, http.StatusNotFound, "No account found for this phone number")
	case errors.Is(err, models.ErrRateLimited):
		return fail(c, http.StatusTooManyRequests, "Please wait a moment before requesting another code")
	case errors.Is(err, models.ErrNoActiveChallenge):
		return fail(c, http.StatusBadRequest, "No pending verification for this phone number. Please request a new code.")
	case errors.Is(err, models.ErrExpired):
		return fail(c, http.StatusBadRequest, "The code has expired. Please request a new one.")
	case errors.Is(err, models.ErrAttemptsExceeded):
		return fail(c, http.StatusTooManyRequests, "Too many incorrect attempts. Please request a new code.")
	case errors.Is(err, models.ErrCodeMismatch):
		return fail(c, http.StatusBadRequest, "Incorrect verification code")
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
			Data:    map[string]string{"redirect": "home"},
		})
	case errors.Is(err, models.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "The request no longer applies in the current state")
	case errors.Is(err, models.ErrPhotoNotFound):
		return fail(c, http.StatusNotFound, "Photo not found")
	case errors.Is(err, models.ErrMessagingDelivery):
		return fail(c, http.StatusServiceUnavailable, "We could not send the code. Please try again.")
	default:
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}
