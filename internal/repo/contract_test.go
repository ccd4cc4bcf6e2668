package repo

import (
	"context"
	"testing"

	dom "Tasker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTaskRepoContract checks the behavior every TaskRepo backend shares.
// users is used to create real owners for backends with a foreign key.
func testTaskRepoContract(t *testing.T, tasks TaskRepo, users UserRepo) {
	t.Helper()
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "hash")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
	found, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	_, err = users.GetByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)

	create := func(owner, title string, status dom.Status) dom.Task {
		t.Helper()
		task, err := tasks.Create(ctx, dom.Task{UserID: owner, Title: title, Description: "d", Status: status})
		require.NoError(t, err)
		require.NotEmpty(t, task.ID)
		assert.Equal(t, owner, task.UserID)
		assert.Nil(t, task.Rating)
		return task
	}
	first := create(alice.ID, "first", dom.StatusPending)
	second := create(alice.ID, "second", dom.StatusCompleted)
	third := create(alice.ID, "third", dom.StatusPending)
	create(bob.ID, "bobs", dom.StatusInProgress)

	t.Run("list is newest first and scoped", func(t *testing.T) {
		list, err := tasks.List(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

		empty, err := tasks.List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("foreign and malformed ids read as missing", func(t *testing.T) {
		_, err := tasks.GetByID(ctx, bob.ID, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = tasks.Update(ctx, bob.ID, first.ID, dom.TaskPatch{})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = tasks.SetRating(ctx, bob.ID, first.ID, 3)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = tasks.Delete(ctx, bob.ID, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		for _, id := range []string{"", "not-an-id", "123"} {
			_, err = tasks.GetByID(ctx, alice.ID, id)
			assert.ErrorIs(t, err, ErrNotFound, id)
			_, err = tasks.Delete(ctx, alice.ID, id)
			assert.ErrorIs(t, err, ErrNotFound, id)
		}
	})

	t.Run("update changes only supplied fields", func(t *testing.T) {
		status := dom.StatusInProgress
		got, err := tasks.Update(ctx, alice.ID, first.ID, dom.TaskPatch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
		assert.Equal(t, "d", got.Description)
		assert.Equal(t, dom.StatusInProgress, got.Status)
		assert.False(t, got.UpdatedAt.Before(first.UpdatedAt))

		empty := ""
		got, err = tasks.Update(ctx, alice.ID, first.ID, dom.TaskPatch{Description: &empty})
		require.NoError(t, err)
		assert.Empty(t, got.Description)
		assert.Equal(t, dom.StatusInProgress, got.Status)

		pending := dom.StatusPending
		_, err = tasks.Update(ctx, alice.ID, first.ID, dom.TaskPatch{Status: &pending})
		require.NoError(t, err)
	})

	t.Run("ratings and aggregates", func(t *testing.T) {
		for id, rating := range map[string]int{first.ID: 4, third.ID: 2, second.ID: 5} {
			got, err := tasks.SetRating(ctx, alice.ID, id, rating)
			require.NoError(t, err)
			require.NotNil(t, got.Rating)
			assert.Equal(t, rating, *got.Rating)
		}
		got, err := tasks.GetByID(ctx, alice.ID, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Rating)
		assert.Equal(t, 4, *got.Rating)

		n, err := tasks.Count(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		counts, err := tasks.CountByStatus(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []dom.StatusCount{
			{Status: dom.StatusCompleted, Count: 1},
			{Status: dom.StatusPending, Count: 2},
		}, counts)

		sums, err := tasks.RatingsByStatus(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []dom.RatingSum{
			{Status: dom.StatusCompleted, Sum: 5, Count: 1},
			{Status: dom.StatusPending, Sum: 6, Count: 2},
		}, sums)

		sums, err = tasks.RatingsByStatus(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, sums)
	})

	t.Run("delete returns the task once", func(t *testing.T) {
		got, err := tasks.Delete(ctx, alice.ID, second.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
		assert.Equal(t, "second", got.Title)

		_, err = tasks.Delete(ctx, alice.ID, second.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = tasks.GetByID(ctx, alice.ID, second.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryRepo_Contract(t *testing.T) {
	testTaskRepoContract(t, NewMemoryTaskRepo(), NewMemoryUserRepo())
}
