package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

func TestAuthorizeProduct_Owner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "u-owner")
	product := env.seedProduct(t, owner.ID)

	got, err := env.guard.AuthorizeProduct(context.Background(), product.ID, owner.ID)

	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestAuthorizeProduct_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "u-owner")
	product := env.seedProduct(t, owner.ID)

	_, err := env.guard.AuthorizeProduct(context.Background(), product.ID, "u-other")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthorizeProduct_MissingBeatsForbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.guard.AuthorizeProduct(context.Background(), "missing", "u-anyone")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthorizeReview_Owner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "u-owner")
	reviewer := env.seedUser(t, "u-reviewer")
	product := env.seedProduct(t, owner.ID)

	review, err := env.reviewSvc.CreateReview(ctx, &CreateReviewInput{
		ProductID: product.ID, AuthorID: reviewer.ID, Body: "Solid frame.", Rating: 4,
	})
	require.NoError(t, err)

	got, err := env.guard.AuthorizeReview(ctx, review.ID, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, got.ID)

	_, err = env.guard.AuthorizeReview(ctx, review.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthorizeReview_MissingBeatsForbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.guard.AuthorizeReview(context.Background(), "missing", "u-anyone")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)
}
