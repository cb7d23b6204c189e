package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadsiddiqi/qurandist-backend/api/controllers"
	pkgauth "github.com/ahmadsiddiqi/qurandist-backend/pkg/auth"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testDeps() Deps {
	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:            "routes-test-secret",
			Issuer:            "qurandist-test",
			ExpirationMinutes: 60,
		},
	}
	return Deps{
		Config: cfg,
		Logger: logg,
		Health: controllers.NewHealthController(okPinger{}, okPinger{}, logg),
	}
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := New(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	router := New(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	router := New(testDeps())

	paths := []string{
		"/api/admin/v1/orders",
		"/api/admin/v1/editions",
		"/api/admin/v1/admins",
		"/api/admin/v1/analytics/dashboard",
		"/api/admin/v1/activity",
		"/api/admin/v1/settings/notifications",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestAdminsRouteRequiresSuperAdmin(t *testing.T) {
	deps := testDeps()
	router := New(deps)

	token, err := pkgauth.MintAccessToken(deps.Config.JWT, time.Now(), pkgauth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "manager@qurandist.org",
		Role:    enums.AdminRoleManager,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/admins", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
