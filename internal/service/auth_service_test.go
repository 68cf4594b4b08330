package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurosurg/learning-app/internal/repository/jsonfile"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "data.json"), zerolog.Nop())
	return NewAuthService(jsonfile.NewUserRepository(store), "test-secret", 7*24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "alice", user.DisplayName)
	assert.Equal(t, "resident", user.Role)
	assert.Equal(t, "neurosurgery", user.Specialization)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "secret1", user.PasswordHash, "password must be hashed")

	loginToken, loginUser, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loginUser.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newAuthFixture(t)
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "12345",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	// Unknown username and wrong password are indistinguishable.
	_, _, err = svc.Login(ctx, "mallory", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestTokenClaims(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Username:    "alice",
		Email:       "a@x.com",
		Password:    "secret1",
		DisplayName: "Dr. Alice",
		Role:        "attending",
	})
	require.NoError(t, err)

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Dr. Alice", claims.DisplayName)
	assert.Equal(t, "attending", claims.Role)

	// Seven-day expiry window.
	expected := time.Now().Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, expected, claims.ExpiresAt.Time, time.Minute)
}

func TestCurrentUser(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.CurrentUser(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
