// controllers/photo_controller.go
package controllers

import (
	"bytes"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/repositories"
	"github.com/rwahyudi/galeri_backend/utils"
	"github.com/rwahyudi/galeri_backend/websocket"
)

// PhotoController handles photo upload and the public gallery.
type PhotoController struct {
	photos *repositories.PhotoRepository
	hub    *websocket.Hub
	logger *log.Logger
}

// NewPhotoController creates a new photo controller
func NewPhotoController(photos *repositories.PhotoRepository, hub *websocket.Hub) *PhotoController {
	return &PhotoController{
		photos: photos,
		hub:    hub,
		logger: log.New(os.Stdout, "[PHOTO] ", log.LstdFlags),
	}
}

// Upload accepts a photo from an active member. The image is re-encoded
// (dropping EXIF), thumbnailed and stored as pending moderation.
func (pc *PhotoController) Upload(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Photo file is required")
	}
	if err := utils.ValidateImageUpload(fileHeader.Filename, fileHeader.Size); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	caption := utils.SanitizeInput(c.FormValue("caption"))

	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read uploaded file")
	}

	photoURL, thumbURL, err := utils.SaveImage(data, "photos")
	if err != nil {
		pc.logger.Printf("Photo save failed for %s: %v", user.Phone, err)
		return fail(c, http.StatusBadRequest, "Failed to process image")
	}

	now := time.Now()
	photo := &models.Photo{
		ID:            primitive.NewObjectID(),
		OwnerID:       user.ID,
		OwnerName:     user.FullName,
		Caption:       caption,
		Path:          photoURL,
		ThumbnailPath: thumbURL,
		Status:        models.PhotoPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := pc.photos.Create(c.Request().Context(), photo); err != nil {
		pc.logger.Printf("Photo insert failed for %s: %v", user.Phone, err)
		utils.RemoveStoredFile(photoURL)
		utils.RemoveStoredFile(thumbURL)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	pc.hub.NotifyPhotoPending(map[string]interface{}{
		"id":        photo.ID.Hex(),
		"ownerName": photo.OwnerName,
		"thumbnail": photo.ThumbnailPath,
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Photo uploaded and awaiting moderation",
		Data:    photo,
	})
}

// Gallery returns the approved photos, newest first. Public.
func (pc *PhotoController) Gallery(c echo.Context) error {
	photos, err := pc.photos.ListByStatus(c.Request().Context(), models.PhotoApproved)
	if err != nil {
		pc.logger.Printf("Gallery listing failed: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Gallery retrieved successfully",
		Data:    photos,
	})
}

// Mine returns the caller's photos with their moderation status.
func (pc *PhotoController) Mine(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	photos, err := pc.photos.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		pc.logger.Printf("Photo listing failed for %s: %v", user.Phone, err)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photos retrieved successfully",
		Data:    photos,
	})
}

// Delete removes a photo. Owners may delete their own; admins may delete any.
func (pc *PhotoController) Delete(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid photo ID")
	}

	photo, err := pc.photos.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if photo.OwnerID != user.ID && user.Role != models.RoleAdmin {
		return respondError(c, models.ErrForbidden)
	}

	if err := pc.photos.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	utils.RemoveStoredFile(photo.Path)
	utils.RemoveStoredFile(photo.ThumbnailPath)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photo deleted successfully",
	})
}

// QRCode renders a QR code pointing at an approved photo's gallery page.
func (pc *PhotoController) QRCode(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid photo ID")
	}

	photo, err := pc.photos.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if photo.Status != models.PhotoApproved {
		return fail(c, http.StatusNotFound, "Photo not found")
	}

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "https://" + c.Request().Host
	}
	content := base + "/gallery/" + photo.ID.Hex()

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		pc.logger.Printf("QR encode failed for %s: %v", photo.ID.Hex(), err)
		return fail(c, http.StatusInternalServerError, "Failed to generate QR code")
	}
	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to generate QR code")
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to generate QR code")
	}

	c.Response().Header().Set("Content-Disposition", "inline; filename=photo-"+photo.ID.Hex()+".png")
	return c.Blob(http.StatusOK, "image/png", buffer.Bytes())
}
