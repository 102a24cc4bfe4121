package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/minhvu-dev/foodpos-backend/pkg/auth"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "foodpos-test",
	ExpirationMinutes: 15,
}

type stubSessionChecker struct {
	ok  bool
	err error
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

func mintTestToken(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: "staff01",
		Role:     enums.UserRoleStaff,
	})
	require.NoError(t, err)
	return token, userID
}

func runAuth(t *testing.T, authorization string, checker *stubSessionChecker) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	var captured *http.Request
	handler := Auth(testJWTConfig, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthSeedsContext(t *testing.T) {
	token, userID := mintTestToken(t)
	rec, captured := runAuth(t, "Bearer "+token, &stubSessionChecker{ok: true})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, userID, UserIDFromContext(captured.Context()))
	assert.Equal(t, "staff01", UsernameFromContext(captured.Context()))
	assert.Equal(t, "staff", RoleFromContext(captured.Context()))
}

func TestAuthMissingHeader(t *testing.T) {
	rec, _ := runAuth(t, "", &stubSessionChecker{ok: true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthBadToken(t *testing.T) {
	rec, _ := runAuth(t, "Bearer not-a-token", &stubSessionChecker{ok: true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRevokedSession(t *testing.T) {
	token, _ := mintTestToken(t)
	rec, _ := runAuth(t, "Bearer "+token, &stubSessionChecker{ok: false})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
