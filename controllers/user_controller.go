// controllers/user_controller.go
package controllers

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/services"
	"github.com/rwahyudi/galeri_backend/utils"
)

// UserController handles profile management for the authenticated member.
type UserController struct {
	accounts *services.AccountService
	logger   *log.Logger
}

// NewUserController creates a new user controller
func NewUserController(accounts *services.AccountService) *UserController {
	return &UserController{
		accounts: accounts,
		logger:   log.New(os.Stdout, "[USER] ", log.LstdFlags),
	}
}

// Me returns the caller's account.
func (uc *UserController) Me(c echo.Context) error {
	user := middleware.AccountFromContext(c)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile mutates the caller's display name and bio. Omitted fields
// keep their current value.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	fullName := user.FullName
	if req.FullName != "" {
		fullName = utils.SanitizeInput(req.FullName)
	}
	bio := user.Bio
	if req.Bio != "" {
		bio = utils.SanitizeInput(req.Bio)
	}

	updated, err := uc.accounts.UpdateProfile(c.Request().Context(), user.ID, fullName, bio)
	if err != nil {
		uc.logger.Printf("Profile update failed for %s: %v", user.Phone, err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    updated,
	})
}

// UploadAvatar replaces the caller's avatar image.
func (uc *UserController) UploadAvatar(c echo.Context) error {
	user := middleware.AccountFromContext(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Avatar file is required")
	}
	if err := utils.ValidateImageUpload(fileHeader.Filename, fileHeader.Size); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read uploaded file")
	}

	avatarURL, _, err := utils.SaveImage(data, "profiles")
	if err != nil {
		uc.logger.Printf("Avatar save failed for %s: %v", user.Phone, err)
		return fail(c, http.StatusBadRequest, "Failed to process image")
	}

	if err := uc.accounts.UpdateAvatar(c.Request().Context(), user.ID, avatarURL); err != nil {
		uc.logger.Printf("Avatar update failed for %s: %v", user.Phone, err)
		utils.RemoveStoredFile(avatarURL)
		return respondError(c, err)
	}

	if user.ProfilePic != "" {
		utils.RemoveStoredFile(user.ProfilePic)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Avatar updated successfully",
		Data:    map[string]string{"profilePic": avatarURL},
	})
}
