package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/minhvu-dev/foodpos-backend/internal/users"
	pkgAuth "github.com/minhvu-dev/foodpos-backend/pkg/auth"
	"github.com/minhvu-dev/foodpos-backend/pkg/auth/session"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
	"github.com/minhvu-dev/foodpos-backend/pkg/metrics"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubUsersService struct{}

func (stubUsersService) Create(context.Context, users.CreateUserInput) (*models.User, error) {
	return &models.User{}, nil
}

func (stubUsersService) Get(context.Context, uuid.UUID) (*models.User, error) {
	return &models.User{}, nil
}

func (stubUsersService) List(_ context.Context, params pagination.Params, _ users.UserFilters) ([]models.User, *pagination.Meta, error) {
	meta := pagination.NewMeta(params.Normalize(), 0)
	return nil, &meta, nil
}

func (stubUsersService) Update(context.Context, users.UpdateUserInput) (*models.User, error) {
	return &models.User{}, nil
}

func (stubUsersService) ChangePassword(context.Context, users.ChangePasswordInput) error {
	return nil
}

func (stubUsersService) Deactivate(context.Context, uuid.UUID) error {
	return nil
}

func (stubUsersService) FindOrCreateGuest(context.Context, users.GuestInput) (*models.User, error) {
	return &models.User{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubSessionChecker{},
		registry,
		metrics.NewHTTPMetrics(registry),
		Services{Users: stubUsersService{}},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "router-test",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestUserManagementRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestChangePasswordOpenToStaff(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"old_password":"old-secret-1","new_password":"new-secret-1"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me/password", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for staff password change got %d", resp.Code)
	}
}
