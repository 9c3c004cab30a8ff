// controllers/auth_controller.go
package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/services"
	"github.com/rwahyudi/galeri_backend/utils"
	"github.com/rwahyudi/galeri_backend/websocket"
)

// AuthController contains the registration and login flow handlers.
type AuthController struct {
	accounts *services.AccountService
	redis    *redis.Client
	hub      *websocket.Hub
	logger   *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(accounts *services.AccountService, rdb *redis.Client, hub *websocket.Hub) *AuthController {
	return &AuthController{
		accounts: accounts,
		redis:    rdb,
		hub:      hub,
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Register starts a registration: creates the unverified account and sends
// the OTP over WhatsApp.
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Phone number and full name are required")
	}
	req.FullName = utils.SanitizeInput(req.FullName)

	ch, err := ac.accounts.Register(c.Request().Context(), req.Phone, req.FullName)
	if err != nil {
		ac.logger.Printf("Registration failed for %q: %v", req.Phone, err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Verification code sent via WhatsApp",
		Data: models.OTPIssuedData{
			Phone:     ch.Phone,
			ExpiresAt: ch.ExpiresAt,
		},
	})
}

// VerifyRegistration consumes the registration OTP. On success the account
// moves to pending_approval and the moderation feed is notified.
func (ac *AuthController) VerifyRegistration(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Phone number and code are required")
	}

	user, err := ac.accounts.VerifyOTP(c.Request().Context(), req.Phone, req.OTP, models.PurposeRegistration)
	if err != nil {
		ac.logger.Printf("Registration verification failed for %q: %v", req.Phone, err)
		return respondError(c, err)
	}

	ac.hub.NotifyAccountPending(map[string]interface{}{
		"id":       user.ID.Hex(),
		"fullName": user.FullName,
		"phone":    user.Phone,
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Phone number verified. Your account is awaiting approval.",
		Data:    user,
	})
}

// Login sends a login OTP to an existing account.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Phone number is required")
	}

	ch, err := ac.accounts.RequestLogin(c.Request().Context(), req.Phone)
	if err != nil {
		ac.logger.Printf("Login request failed for %q: %v", req.Phone, err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login code sent via WhatsApp",
		Data: models.OTPIssuedData{
			Phone:     ch.Phone,
			ExpiresAt: ch.ExpiresAt,
		},
	})
}

// VerifyLogin consumes the login OTP and mints a session token. Account
// status is not checked here; the session gate decides what the session may
// reach on every request.
func (ac *AuthController) VerifyLogin(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Phone number and code are required")
	}

	user, err := ac.accounts.VerifyOTP(c.Request().Context(), req.Phone, req.OTP, models.PurposeLogin)
	if err != nil {
		ac.logger.Printf("Login verification failed for %q: %v", req.Phone, err)
		return respondError(c, err)
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Phone, user.Role)
	if err != nil {
		ac.logger.Printf("Token generation failed for %s: %v", user.Phone, err)
		return fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginData{
			Token: token,
			User:  user,
		},
	})
}

// ResendOTP reissues the outstanding code for a phone number.
func (ac *AuthController) ResendOTP(c echo.Context) error {
	var req models.ResendOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Phone number is required")
	}

	ch, err := ac.accounts.ResendOTP(c.Request().Context(), req.Phone)
	if err != nil {
		ac.logger.Printf("OTP resend failed for %q: %v", req.Phone, err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Verification code resent via WhatsApp",
		Data: models.OTPIssuedData{
			Phone:     ch.Phone,
			ExpiresAt: ch.ExpiresAt,
		},
	})
}

// Logout revokes the current session token.
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	raw := middleware.GetRawToken(c)
	if claims == nil || raw == "" {
		return fail(c, http.StatusUnauthorized, "No active session")
	}

	expiresAt := time.Unix(claims.ExpiresAt, 0)
	if err := middleware.BlacklistToken(c.Request().Context(), ac.redis, raw, expiresAt); err != nil {
		ac.logger.Printf("Failed to blacklist token: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}
