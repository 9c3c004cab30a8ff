package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rwahyudi/galeri_backend/models"
)

type fakeAccountLookup struct {
	byID map[primitive.ObjectID]*models.User
}

func (f *fakeAccountLookup) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return u, nil
}

func newGateFixture(users ...*models.User) (*SessionGate, *fakeAccountLookup) {
	lookup := &fakeAccountLookup{byID: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		lookup.byID[u.ID] = u
	}
	return NewSessionGate(lookup), lookup
}

func gateRequest(t *testing.T, mw echo.MiddlewareFunc, userID string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/photos/mine", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("userId", userID)
	}

	handlerRan := false
	handler := mw(func(c echo.Context) error {
		handlerRan = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, handlerRan
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data["redirect"]
}

func statusUser(status models.AccountStatus) *models.User {
	return &models.User{
		ID:     primitive.NewObjectID(),
		Phone:  "6285157300793",
		Role:   models.RoleMember,
		Status: status,
	}
}

func TestRequireActiveAdmitsActiveAccount(t *testing.T) {
	user := statusUser(models.StatusActive)
	gate, _ := newGateFixture(user)

	rec, ran := gateRequest(t, gate.RequireActive(), user.ID.Hex())
	assert.True(t, ran)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireActiveWithoutSession(t *testing.T) {
	gate, _ := newGateFixture()

	rec, ran := gateRequest(t, gate.RequireActive(), "")
	assert.False(t, ran)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, RedirectLogin, redirectOf(t, rec))
}

func TestRequireActiveMalformedSession(t *testing.T) {
	gate, _ := newGateFixture()

	rec, ran := gateRequest(t, gate.RequireActive(), "not-a-hex-id")
	assert.False(t, ran)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, RedirectLogin, redirectOf(t, rec))
}

func TestRequireAdminWithoutSession(t *testing.T) {
	gate, _ := newGateFixture()

	rec, ran := gateRequest(t, gate.RequireAdmin(), "")
	assert.False(t, ran)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, RedirectLogin, redirectOf(t, rec))
}

func TestRequireActiveUnknownAccount(t *testing.T) {
	gate, _ := newGateFixture()

	rec, ran := gateRequest(t, gate.RequireActive(), primitive.NewObjectID().Hex())
	assert.False(t, ran)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, RedirectLogin, redirectOf(t, rec))
}

func TestRequireActiveRedirectsByStatus(t *testing.T) {
	tests := []struct {
		status   models.AccountStatus
		redirect string
	}{
		{models.StatusUnverified, RedirectVerifyOTP},
		{models.StatusPendingApproval, RedirectWaitingRoom},
		{models.StatusRejected, RedirectLogin},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			user := statusUser(tt.status)
			gate, _ := newGateFixture(user)

			rec, ran := gateRequest(t, gate.RequireActive(), user.ID.Hex())
			assert.False(t, ran)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, tt.redirect, redirectOf(t, rec))
		})
	}
}

func TestRequireActiveSeesFreshStatus(t *testing.T) {
	user := statusUser(models.StatusActive)
	gate, lookup := newGateFixture(user)

	_, ran := gateRequest(t, gate.RequireActive(), user.ID.Hex())
	require.True(t, ran)

	// The account is rejected mid-session; the very next request is refused
	// even though the token is still formally valid.
	lookup.byID[user.ID].Status = models.StatusRejected

	rec, ran := gateRequest(t, gate.RequireActive(), user.ID.Hex())
	assert.False(t, ran)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, RedirectLogin, redirectOf(t, rec))
}

func TestRequireAdminRefusesMember(t *testing.T) {
	user := statusUser(models.StatusActive)
	gate, _ := newGateFixture(user)

	rec, ran := gateRequest(t, gate.RequireAdmin(), user.ID.Hex())
	assert.False(t, ran)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, RedirectHome, redirectOf(t, rec))
}

func TestRequireAdminAdmitsAdmin(t *testing.T) {
	admin := statusUser(models.StatusActive)
	admin.Role = models.RoleAdmin
	gate, _ := newGateFixture(admin)

	rec, ran := gateRequest(t, gate.RequireAdmin(), admin.ID.Hex())
	assert.True(t, ran)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountFromContextOutsideGate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Nil(t, AccountFromContext(c))
}
