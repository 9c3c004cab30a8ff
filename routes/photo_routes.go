package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/rwahyudi/galeri_backend/controllers"
	"github.com/rwahyudi/galeri_backend/middleware"
)

// RegisterPhotoRoutes sets up the gallery routes. The gallery itself and the
// QR codes are public; uploading and managing photos requires an active
// account.
func RegisterPhotoRoutes(e *echo.Echo, api *echo.Group, gate *middleware.SessionGate, photoController *controllers.PhotoController) {
	e.GET("/api/gallery", photoController.Gallery)
	e.GET("/api/photos/:id/qrcode", photoController.QRCode)

	photos := api.Group("/photos", gate.RequireActive())
	photos.POST("", photoController.Upload)
	photos.GET("/mine", photoController.Mine)
	photos.DELETE("/:id", photoController.Delete)
}
