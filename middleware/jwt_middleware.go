// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const sessionTTL = 24 * time.Hour

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// BlacklistToken revokes a token until its natural expiry. Tokens are held in
// Redis so revocation survives restarts; without Redis, logout degrades to
// client-side token disposal.
func BlacklistToken(ctx context.Context, rdb *redis.Client, token string, expiresAt time.Time) error {
	if rdb == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, "jwt_blacklist:"+token, 1, ttl).Err()
}

// IsTokenBlacklisted checks whether a token has been revoked.
func IsTokenBlacklisted(ctx context.Context, rdb *redis.Client, token string) bool {
	if rdb == nil {
		return false
	}
	n, err := rdb.Exists(ctx, "jwt_blacklist:"+token).Result()
	if err != nil {
		log.Printf("Warning: blacklist check failed: %v", err)
		return false
	}
	return n > 0
}

// JWTMiddleware returns a configured JWT middleware. Validated claims are
// copied into the context under userId, phone and role. Revocation is not
// checked here: the SuccessHandler cannot stop the chain, so that lives in
// BlacklistMiddleware.
func JWTMiddleware(rdb *redis.Client) echo.MiddlewareFunc {
	secret := GetJWTSecret()

	return echoMiddleware.JWTWithConfig(echoMiddleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)
			claims := token.Claims.(*JwtCustomClaims)
			c.Set("userId", claims.UserID)
			c.Set("phone", claims.Phone)
			c.Set("role", claims.Role)
		},
		ErrorHandler: func(err error) error {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Invalid or expired token")
		},
	})
}

// BlacklistMiddleware refuses revoked tokens. It runs after JWTMiddleware, so
// the validated token is already in the context, and it returns an error
// before calling next so the handler never executes for a logged-out session.
func BlacklistMiddleware(rdb *redis.Client) echo.MiddlewareFunc {
	return blacklistMiddleware(func(ctx context.Context, token string) bool {
		return IsTokenBlacklisted(ctx, rdb, token)
	})
}

func blacklistMiddleware(revoked func(ctx context.Context, token string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := GetRawToken(c); raw != "" && revoked(c.Request().Context(), raw) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has been invalidated")
			}
			return next(c)
		}
	}
}

// GenerateJWT generates a session token for the account.
func GenerateJWT(userID, phone, role string) (string, error) {
	claims := &JwtCustomClaims{
		UserID: userID,
		Phone:  phone,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(sessionTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET environment variable is required")
	}
	return token.SignedString([]byte(secret))
}

// GetUserFromToken extracts the validated claims from the request context.
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}

	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetRawToken returns the raw signed token string for the current request.
func GetRawToken(c echo.Context) string {
	user := c.Get("user")
	if user == nil {
		return ""
	}
	token, ok := user.(*jwt.Token)
	if !ok {
		return ""
	}
	return token.Raw
}

// ExtractUserID returns the authenticated account ID from the context.
func ExtractUserID(c echo.Context) (string, error) {
	if userID, ok := c.Get("userId").(string); ok && userID != "" {
		return userID, nil
	}

	claims := GetUserFromToken(c)
	if claims != nil && claims.UserID != "" {
		return claims.UserID, nil
	}

	return "", errors.New("invalid user ID in token")
}
