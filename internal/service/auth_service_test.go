package service

import (
	"context"
	"testing"
	"time"

	"storefront-api/internal/auth"
	"storefront-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	tokens := auth.NewManager("test-secret", "storefront-api", "storefront-clients", time.Hour)
	return NewAuthService(users, tokens), users
}

func TestRegister(t *testing.T) {
	svc, users := newAuthFixture()

	session, err := svc.Register(context.Background(), "  Alice@Example.COM ", "s3cret-pass")
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.UserID)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.Equal(t, models.RoleUser, session.Role)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	stored, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterEmailTaken(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ALICE@example.com", "another-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	registered, err := svc.Register(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "Alice@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, session.UserID)
	assert.NotEmpty(t, session.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUser(t *testing.T) {
	svc, _ := newAuthFixture()

	session, err := svc.Register(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), session.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
