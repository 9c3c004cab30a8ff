package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/rwahyudi/galeri_backend/config"
	"github.com/rwahyudi/galeri_backend/controllers"
	"github.com/rwahyudi/galeri_backend/middleware"
	"github.com/rwahyudi/galeri_backend/repositories"
	"github.com/rwahyudi/galeri_backend/routes"
	"github.com/rwahyudi/galeri_backend/services"
	"github.com/rwahyudi/galeri_backend/utils"
	"github.com/rwahyudi/galeri_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional; throttling degrades without it)
	rdb := config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Prepare upload directories
	if err := utils.InitializeStorage(); err != nil {
		log.Fatal("Failed to initialize upload storage:", err)
	}

	// Repositories
	accountRepo := repositories.NewAccountRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	photoRepo := repositories.NewPhotoRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Services
	fonnte := services.NewFonnteService()
	otpService := services.NewOTPService(challengeRepo, fonnte, rdb)
	accountService := services.NewAccountService(accountRepo, notificationRepo, otpService, fonnte)

	// Bootstrap the admin account from ADMIN_PHONE
	if adminPhone := os.Getenv("ADMIN_PHONE"); adminPhone != "" {
		if err := accountService.EnsureAdmin(context.Background(), adminPhone); err != nil {
			log.Printf("Warning: admin bootstrap failed: %v", err)
		}
	} else {
		log.Println("Warning: ADMIN_PHONE not set, no admin account bootstrapped")
	}

	// Create WebSocket hub for the moderation feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Galeri Backend is running",
			"version": "1.0",
		})
	})

	healthController := controllers.NewHealthController(client)
	e.Match([]string{"GET", "HEAD"}, "/health", healthController.Check)

	// Protected group: every route on it carries a valid session token
	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware(rdb))
	api.Use(middleware.BlacklistMiddleware(rdb))

	gate := middleware.NewSessionGate(accountRepo)

	// Controllers
	authController := controllers.NewAuthController(accountService, rdb, wsHub)
	userController := controllers.NewUserController(accountService)
	photoController := controllers.NewPhotoController(photoRepo, wsHub)
	notificationController := controllers.NewNotificationController(notificationRepo)
	adminController := controllers.NewAdminController(accountService, photoRepo, notificationRepo, fonnte)

	routes.RegisterAuthRoutes(e, api, authController)
	routes.RegisterUserRoutes(api, gate, userController, notificationController)
	routes.RegisterPhotoRoutes(e, api, gate, photoController)
	routes.RegisterAdminRoutes(api, gate, adminController, wsHub)

	// Uploaded images are served directly
	e.Static("/uploads", "uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
