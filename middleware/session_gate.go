// middleware/session_gate.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rwahyudi/galeri_backend/models"
)

// Redirect targets handed to the client when a request is turned away. The
// frontend routes on these instead of on error details.
const (
	RedirectLogin       = "login"
	RedirectVerifyOTP   = "verify-otp"
	RedirectWaitingRoom = "waiting-room"
	RedirectHome        = "home"
)

const accountContextKey = "account"

// AccountLookup resolves the account behind a session.
type AccountLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// SessionGate decides, per request, whether the caller may reach the handler
// behind it: a valid session must exist, the account must be active, and
// admin routes additionally require the admin role. It runs after
// JWTMiddleware and resolves the account fresh on every request, so a
// just-rejected account loses access immediately, token or not.
type SessionGate struct {
	accounts AccountLookup
}

// NewSessionGate creates a session gate backed by the given account lookup.
func NewSessionGate(accounts AccountLookup) *SessionGate {
	return &SessionGate{accounts: accounts}
}

// RequireActive admits only sessions whose account status is active. Other
// statuses are redirected to their boundary page: unverified to the OTP
// screen, pending_approval to the waiting room, rejected back to login.
func (g *SessionGate) RequireActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := g.resolve(c)
			if err != nil || user == nil {
				// resolve already wrote the denial response
				return err
			}

			switch user.Status {
			case models.StatusActive:
				c.Set(accountContextKey, user)
				return next(c)
			case models.StatusUnverified:
				return deny(c, http.StatusForbidden, "Phone number not verified", RedirectVerifyOTP)
			case models.StatusPendingApproval:
				return deny(c, http.StatusForbidden, "Account is awaiting approval", RedirectWaitingRoom)
			default:
				return deny(c, http.StatusForbidden, "Access denied", RedirectLogin)
			}
		}
	}
}

// RequireAdmin admits only active admin sessions. Non-admins are sent home
// with no further detail.
func (g *SessionGate) RequireAdmin() echo.MiddlewareFunc {
	requireActive := g.RequireActive()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return requireActive(func(c echo.Context) error {
			user := AccountFromContext(c)
			if user == nil || user.Role != models.RoleAdmin {
				return deny(c, http.StatusForbidden, "Access denied", RedirectHome)
			}
			return next(c)
		})
	}
}

// resolve returns the account behind the session. On denial it writes the
// response itself and returns a nil user; c.JSON reports nil on a successful
// write, so callers must check the user, not just the error.
func (g *SessionGate) resolve(c echo.Context) (*models.User, error) {
	userID, err := ExtractUserID(c)
	if err != nil {
		return nil, deny(c, http.StatusUnauthorized, "Authentication required", RedirectLogin)
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, deny(c, http.StatusUnauthorized, "Authentication required", RedirectLogin)
	}

	user, err := g.accounts.FindByID(c.Request().Context(), objID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, deny(c, http.StatusUnauthorized, "Authentication required", RedirectLogin)
		}
		return nil, c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong. Please try again.",
		})
	}

	return user, nil
}

func deny(c echo.Context, status int, message, redirect string) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    map[string]string{"redirect": redirect},
	})
}

// AccountFromContext returns the account resolved by the session gate, or nil
// on ungated routes.
func AccountFromContext(c echo.Context) *models.User {
	user, ok := c.Get(accountContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
