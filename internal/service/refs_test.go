package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachDetachProductBackLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "u-1")

	require.NoError(t, env.refs.AttachProductToUser(ctx, "u-1", "p-1"))
	require.NoError(t, env.refs.AttachProductToUser(ctx, "u-1", "p-2"))

	user, err := env.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1", "p-2"}, user.Products)

	require.NoError(t, env.refs.DetachProductFromUser(ctx, "u-1", "p-1"))

	user, err = env.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2"}, user.Products)
}

func TestAttachIsDuplicateSafe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "u-1")

	require.NoError(t, env.refs.AttachReviewToUser(ctx, "u-1", "r-1"))
	require.NoError(t, env.refs.AttachReviewToUser(ctx, "u-1", "r-1"))

	user, err := env.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-1"}, user.Reviews)
}

func TestDetachIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "u-1")

	require.NoError(t, env.refs.AttachReviewToUser(ctx, "u-1", "r-1"))
	require.NoError(t, env.refs.DetachReviewFromUser(ctx, "u-1", "r-1"))
	require.NoError(t, env.refs.DetachReviewFromUser(ctx, "u-1", "r-1"))
	require.NoError(t, env.refs.DetachReviewFromUser(ctx, "u-1", "never-attached"))

	user, err := env.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, user.Reviews)
}

func TestDetachFromMissingParentIsAbsorbed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.NoError(t, env.refs.DetachProductFromUser(ctx, "ghost", "p-1"))
	assert.NoError(t, env.refs.DetachReviewFromUser(ctx, "ghost", "r-1"))
	assert.NoError(t, env.refs.DetachReviewFromProduct(ctx, "ghost", "r-1"))
}

func TestAttachToMissingParentFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Error(t, env.refs.AttachProductToUser(ctx, "ghost", "p-1"))
	assert.Error(t, env.refs.AttachReviewToProduct(ctx, "ghost", "r-1"))
}

func TestDetachPreservesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "u-1")

	for _, id := range []string{"r-1", "r-2", "r-3"} {
		require.NoError(t, env.refs.AttachReviewToUser(ctx, "u-1", id))
	}
	require.NoError(t, env.refs.DetachReviewFromUser(ctx, "u-1", "r-2"))

	user, err := env.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-1", "r-3"}, user.Reviews)
}
