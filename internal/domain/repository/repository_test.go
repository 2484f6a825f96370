package repository

import (
	"context"
	"testing"

	"freecode/internal/common"
	"freecode/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.FindByEmail(ctx, "ada@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)

	user := &model.User{ID: "u1", Email: " Ada@Example.com ", HashedPassword: "hash", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "hash", got.HashedPassword)

	err = repo.Create(ctx, &model.User{ID: "u2", Email: "ada@example.com", Role: model.RoleAdmin})
	require.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestMemoryExecutionJobRepositoryIsBoundedAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryExecutionJobRepository(2)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Append(ctx, &model.ExecutionJob{ID: id, UserID: "u1"}))
	}
	require.NoError(t, repo.Append(ctx, &model.ExecutionJob{ID: "x", UserID: "u2"}))

	jobs, err := repo.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "c", jobs[0].ID)
	assert.Equal(t, "b", jobs[1].ID)

	jobs, err = repo.ListByUser(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = repo.ListByUser(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestMemoryUserRepositoryMatchesStores(t *testing.T) {
	checkUserRepository(t, NewMemoryUserRepository())
}
