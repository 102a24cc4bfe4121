package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/minhvu-dev/foodpos-backend/pkg/auth"
	"github.com/minhvu-dev/foodpos-backend/pkg/auth/session"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "foodpos-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type stubUserReader struct {
	users map[string]*models.User
}

func (s *stubUserReader) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubSessions struct {
	generated []string
	revoked   []string

	rotateErr      error
	rotateAccessID string
	rotateRefresh  string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.rotateAccessID, s.rotateRefresh, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "staff01",
		PasswordHash: hash,
		Role:         enums.UserRoleStaff,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, users *stubUserReader, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(users, sessions, testJWTConfig)
	require.NoError(t, err)
	return svc
}

func TestLogin(t *testing.T) {
	user := newTestUser(t, "s3cret-pass")
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{"staff01": user}}, sessions)

	pair, err := svc.Login(context.Background(), LoginInput{Username: " Staff01 ", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleStaff, claims.Role)
	require.Len(t, sessions.generated, 1)
	assert.Equal(t, claims.ID, sessions.generated[0])
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.ExpiresAt, 5*time.Second)
}

func TestLoginWrongPassword(t *testing.T) {
	user := newTestUser(t, "s3cret-pass")
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{"staff01": user}}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "staff01", Password: "wrong"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{}}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginRejectsInactiveAndGuest(t *testing.T) {
	inactive := newTestUser(t, "s3cret-pass")
	inactive.IsActive = false

	guest := &models.User{ID: uuid.New(), Username: "guest_0901234567", Role: enums.UserRoleGuest, IsActive: true, IsGuest: true}

	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{
		"staff01":          inactive,
		"guest_0901234567": guest,
	}}, &stubSessions{})

	for _, username := range []string{"staff01", "guest_0901234567"} {
		_, err := svc.Login(context.Background(), LoginInput{Username: username, Password: "s3cret-pass"})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	}
}

func TestRefresh(t *testing.T) {
	user := newTestUser(t, "s3cret-pass")
	sessions := &stubSessions{rotateAccessID: session.NewAccessID(), rotateRefresh: "new-refresh"}
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{"staff01": user}}, sessions)

	pair, err := svc.Login(context.Background(), LoginInput{Username: "staff01", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", refreshed.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sessions.rotateAccessID, claims.ID)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshInvalidToken(t *testing.T) {
	user := newTestUser(t, "s3cret-pass")
	sessions := &stubSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{"staff01": user}}, sessions)

	pair, err := svc.Login(context.Background(), LoginInput{Username: "staff01", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: "stolen",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshDeactivatedUserRevokesSession(t *testing.T) {
	user := newTestUser(t, "s3cret-pass")
	sessions := &stubSessions{rotateAccessID: "rotated-id", rotateRefresh: "new-refresh"}
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{"staff01": user}}, sessions)

	pair, err := svc.Login(context.Background(), LoginInput{Username: "staff01", Password: "s3cret-pass"})
	require.NoError(t, err)

	user.IsActive = false
	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Contains(t, sessions.revoked, "rotated-id")
}

func TestLogout(t *testing.T) {
	user := newTestUser(t, "s3cret-pass")
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserReader{users: map[string]*models.User{"staff01": user}}, sessions)

	pair, err := svc.Login(context.Background(), LoginInput{Username: "staff01", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.AccessToken))
	claims, err := pkgauth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{claims.ID}, sessions.revoked)
}
