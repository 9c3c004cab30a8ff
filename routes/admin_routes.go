package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/controllers"
	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/websocket"
)

// RegisterAdminRoutes sets up the moderation routes, all behind the admin
// session gate. The websocket feed pushes pending registrations and photos
// to connected admin dashboards.
func RegisterAdminRoutes(api *echo.Group, gate *middleware.SessionGate, adminController *controllers.AdminController, hub *websocket.Hub) {
	admin := api.Group("/admin", gate.RequireAdmin())

	admin.GET("/accounts/pending", adminController.GetPendingAccounts)
	admin.PUT("/accounts/:id/approve", adminController.ApproveAccount)
	admin.PUT("/accounts/:id/reject", adminController.RejectAccount)

	admin.GET("/photos/pending", adminController.GetPendingPhotos)
	admin.PUT("/photos/:id/approve", adminController.ApprovePhoto)
	admin.PUT("/photos/:id/reject", adminController.RejectPhoto)

	admin.GET("/ws", func(c echo.Context) error {
		user := middleware.AccountFromContext(c)
		return websocket.HandleWebSocket(c, hub, user.ID)
	})
}
