package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/controllers"
	"github.com/rwahyudi/galeri_backend/middleware"
)

// RegisterUserRoutes sets up the profile and notification routes. Everything
// here requires an active account.
func RegisterUserRoutes(api *echo.Group, gate *middleware.SessionGate, userController *controllers.UserController, notificationController *controllers.NotificationController) {
	users := api.Group("/users", gate.RequireActive())
	users.GET("/me", userController.Me)
	users.PUT("/me", userController.UpdateProfile)
	users.POST("/me/avatar", userController.UploadAvatar)

	notifications := api.Group("/notifications", gate.RequireActive())
	notifications.GET("", notificationController.List)
	notifications.PUT("/:id/read", notificationController.MarkRead)
}
