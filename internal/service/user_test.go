package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userSvc.Register(ctx, &RegisterInput{
		FirstName: "Ana",
		LastName:  "Horvat",
		Email:     "ana@example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.Empty(t, user.Products)
	assert.Empty(t, user.Reviews)

	loggedIn, token, err := env.userSvc.Login(ctx, &LoginInput{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := env.jwt.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.userSvc.Register(ctx, &RegisterInput{
		FirstName: "Ana", LastName: "Horvat", Email: "ana@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = env.userSvc.Register(ctx, &RegisterInput{
		FirstName: "Ivan", LastName: "Kovac", Email: "ana@example.com", Password: "other-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestRegister_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.userSvc.Register(context.Background(), &RegisterInput{
		FirstName: "Ana", LastName: "Horvat", Email: "ana@example.com", Password: "short",
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegister_MissingName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.userSvc.Register(context.Background(), &RegisterInput{
		LastName: "Horvat", Email: "ana@example.com", Password: "correct-horse",
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.userSvc.Register(ctx, &RegisterInput{
		FirstName: "Ana", LastName: "Horvat", Email: "ana@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, _, err = env.userSvc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.userSvc.Login(context.Background(), &LoginInput{
		Email: "ghost@example.com", Password: "whatever-it-is",
	})

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
