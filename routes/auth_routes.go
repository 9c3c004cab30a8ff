package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/controllers"
)

// RegisterAuthRoutes sets up the public registration and login routes.
// Logout needs a valid token, so it lives on the protected group.
func RegisterAuthRoutes(e *echo.Echo, api *echo.Group, authController *controllers.AuthController) {
	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/verify-registration", authController.VerifyRegistration)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/verify-login", authController.VerifyLogin)
	e.POST("/api/auth/resend-otp", authController.ResendOTP)

	api.POST("/auth/logout", authController.Logout)
}
