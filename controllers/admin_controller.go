// controllers/admin_controller.go
package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/repositories"
	"github.com/rwahyudi/galeri_backend/services"
)

// AdminController contains the moderation handlers. Every route mounting
// these goes through the admin session gate first.
type AdminController struct {
	accounts      *services.AccountService
	photos        *repositories.PhotoRepository
	notifications *repositories.NotificationRepository
	messenger     services.Messenger
	logger        *log.Logger
}

// NewAdminController creates a new admin controller
func NewAdminController(accounts *services.AccountService, photos *repositories.PhotoRepository, notifications *repositories.NotificationRepository, messenger services.Messenger) *AdminController {
	return &AdminController{
		accounts:      accounts,
		photos:        photos,
		notifications: notifications,
		messenger:     messenger,
		logger:        log.New(os.Stdout, "[ADMIN] ", log.LstdFlags),
	}
}

// GetPendingAccounts lists accounts awaiting a decision, oldest first.
func (adc *AdminController) GetPendingAccounts(c echo.Context) error {
	users, err := adc.accounts.ListPending(c.Request().Context())
	if err != nil {
		adc.logger.Printf("Pending accounts listing failed: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending accounts retrieved successfully",
		Data:    users,
	})
}

// ApproveAccount activates a pending account.
func (adc *AdminController) ApproveAccount(c echo.Context) error {
	return adc.decideAccount(c, true)
}

// RejectAccount moves a pending account to the rejected terminal state.
func (adc *AdminController) RejectAccount(c echo.Context) error {
	return adc.decideAccount(c, false)
}

func (adc *AdminController) decideAccount(c echo.Context, approve bool) error {
	actor := middleware.AccountFromContext(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid account ID")
	}

	var target *models.User
	if approve {
		target, err = adc.accounts.Approve(c.Request().Context(), actor, targetID)
	} else {
		target, err = adc.accounts.Reject(c.Request().Context(), actor, targetID)
	}
	if err != nil {
		adc.logger.Printf("Account decision failed for %s: %v", targetID.Hex(), err)
		return respondError(c, err)
	}

	message := "Account approved successfully"
	if !approve {
		message = "Account rejected"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    target,
	})
}

// GetPendingPhotos lists photos awaiting moderation.
func (adc *AdminController) GetPendingPhotos(c echo.Context) error {
	photos, err := adc.photos.ListByStatus(c.Request().Context(), models.PhotoPending)
	if err != nil {
		adc.logger.Printf("Pending photos listing failed: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending photos retrieved successfully",
		Data:    photos,
	})
}

// ApprovePhoto publishes a pending photo to the gallery.
func (adc *AdminController) ApprovePhoto(c echo.Context) error {
	return adc.decidePhoto(c, models.PhotoApproved)
}

// RejectPhoto declines a pending photo.
func (adc *AdminController) RejectPhoto(c echo.Context) error {
	return adc.decidePhoto(c, models.PhotoRejected)
}

func (adc *AdminController) decidePhoto(c echo.Context, to string) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid photo ID")
	}

	photo, err := adc.photos.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if err := adc.photos.UpdateStatus(c.Request().Context(), id, models.PhotoPending, to); err != nil {
		adc.logger.Printf("Photo decision failed for %s: %v", id.Hex(), err)
		return respondError(c, err)
	}
	photo.Status = to

	adc.notifyPhotoOwner(c, photo, to)

	message := "Photo approved and published"
	if to == models.PhotoRejected {
		message = "Photo rejected"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    photo,
	})
}

// notifyPhotoOwner tells the owner about the decision over WhatsApp and
// in-app. Failures are logged; the decision itself is already committed.
func (adc *AdminController) notifyPhotoOwner(c echo.Context, photo *models.Photo, to string) {
	ctx := c.Request().Context()

	owner, err := adc.accounts.FindByID(ctx, photo.OwnerID)
	if err != nil {
		adc.logger.Printf("Owner lookup failed for photo %s: %v", photo.ID.Hex(), err)
		return
	}

	var title, message string
	if to == models.PhotoApproved {
		title = "Foto dipublikasikan"
		message = fmt.Sprintf("Halo %s, foto Anda telah disetujui dan tampil di galeri.", owner.FullName)
	} else {
		title = "Foto ditolak"
		message = fmt.Sprintf("Halo %s, mohon maaf, foto Anda tidak dapat kami tampilkan di galeri.", owner.FullName)
	}

	if err := adc.messenger.SendMessage(ctx, owner.Phone, message); err != nil {
		adc.logger.Printf("WhatsApp notification failed for %s: %v", owner.Phone, err)
	}
	notification := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    owner.ID,
		Title:     title,
		Message:   message,
		Type:      "photo_decision",
		Data:      map[string]string{"photoId": photo.ID.Hex()},
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := adc.notifications.Create(ctx, notification); err != nil {
		adc.logger.Printf("Failed to save notification for %s: %v", owner.Phone, err)
	}
}
