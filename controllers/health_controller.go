// controllers/health_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthController reports process and database liveness.
type HealthController struct {
	client *mongo.Client
}

// NewHealthController creates a new health controller
func NewHealthController(client *mongo.Client) *HealthController {
	return &HealthController{client: client}
}

// Check pings the database with a short budget so a dead Mongo degrades the
// report instead of hanging the probe.
func (hc *HealthController) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := hc.client.Ping(ctx, nil); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
