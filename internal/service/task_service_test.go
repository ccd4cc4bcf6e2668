package service

import (
	"context"
	"strings"
	"testing"
	"time"

	dom "Tasker/internal/domain"
	"Tasker/internal/repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tasker/internal/cache"
)

func newTaskService(t *testing.T) (*TaskService, *repo.MemoryTaskRepo) {
	t.Helper()
	log, _ := test.NewNullLogger()
	r := repo.NewMemoryTaskRepo()
	return NewTaskService(r, nil, log), r
}

func strPtr(s string) *string { return &s }

func TestTaskService_CreateDefaults(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "  Buy milk ", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, dom.StatusPending, task.Status)
	assert.Nil(t, task.Rating)
	assert.Equal(t, "alice", task.UserID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskService_CreateRejectsInvalidInput(t *testing.T) {
	svc, r := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", strings.Repeat("x", 101), "", "")
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = svc.Create(ctx, "alice", "   ", "", "")
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = svc.Create(ctx, "alice", "ok", strings.Repeat("d", 501), "")
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = svc.Create(ctx, "alice", "ok", "", dom.Status("done"))
	assert.ErrorIs(t, err, ErrInvalidTask)

	n, err := r.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTaskService_TitleLengthCountsCharacters(t *testing.T) {
	svc, _ := newTaskService(t)

	_, err := svc.Create(context.Background(), "alice", strings.Repeat("é", 100), "", "")
	assert.NoError(t, err)
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Secret plan", "", dom.StatusInProgress)
	require.NoError(t, err)

	list, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.GetByID(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "bob", task.ID, dom.TaskPatch{Title: strPtr("hijacked")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Rate(ctx, "bob", task.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "bob", task.ID), ErrNotFound)

	got, err := svc.GetByID(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret plan", got.Title)
	assert.Nil(t, got.Rating)
}

func TestTaskService_ListNewestFirst(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, "alice", title, "", "")
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "first", list[2].Title)
}

func TestTaskService_UpdateOnlySuppliedFields(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Write report", "quarterly numbers", "")
	require.NoError(t, err)

	completed := dom.StatusCompleted
	updated, err := svc.Update(ctx, "alice", task.ID, dom.TaskPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, dom.StatusCompleted, updated.Status)
	assert.Equal(t, "Write report", updated.Title)
	assert.Equal(t, "quarterly numbers", updated.Description)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))

	cleared, err := svc.Update(ctx, "alice", task.ID, dom.TaskPatch{Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Description)
	assert.Equal(t, dom.StatusCompleted, cleared.Status)
}

func TestTaskService_UpdateRevalidates(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Write report", "", "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", task.ID, dom.TaskPatch{Title: strPtr(strings.Repeat("x", 101))})
	assert.ErrorIs(t, err, ErrInvalidTask)

	bogus := dom.Status("archived")
	_, err = svc.Update(ctx, "alice", task.ID, dom.TaskPatch{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidTask)

	got, err := svc.GetByID(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, dom.StatusPending, got.Status)
}

func TestTaskService_RateKeepsPreviousRatingOnInvalidValue(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Cook dinner", "", "")
	require.NoError(t, err)

	rated, err := svc.Rate(ctx, "alice", task.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 3, *rated.Rating)

	_, err = svc.Rate(ctx, "alice", task.ID, 6)
	assert.ErrorIs(t, err, ErrInvalidTask)

	got, err := svc.GetByID(ctx, "alice", task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 3, *got.Rating)
}

func TestTaskService_DeleteThenGet(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", "Temporary", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", task.ID))

	_, err = svc.GetByID(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", task.ID), ErrNotFound)
}

func TestTaskService_CachedListIsInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log, _ := test.NewNullLogger()
	svc := NewTaskService(repo.NewMemoryTaskRepo(), cache.NewTaskCache(rdb, time.Minute), log)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "one", "", "")
	require.NoError(t, err)

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists("tasks:alice:list"))

	_, err = svc.Create(ctx, "alice", "two", "", "")
	require.NoError(t, err)
	assert.False(t, mr.Exists("tasks:alice:list"))

	list, err = svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTaskService_FallsBackToStoreWhenCacheIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	log, hook := test.NewNullLogger()
	r := repo.NewMemoryTaskRepo()
	svc := NewTaskService(r, cache.NewTaskCache(rdb, time.Minute), log)
	ctx := context.Background()

	_, err := r.Create(ctx, dom.Task{UserID: "alice", Title: "stored", Status: dom.StatusPending})
	require.NoError(t, err)
	mr.Close()

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NotEmpty(t, hook.AllEntries())
}

func TestTaskService_InvalidInputNamesFieldAndRule(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	task, err := svc.Create(ctx, "alice", "ok", "", "")
	require.NoError(t, err)

	bad := dom.Status("done")
	cases := []struct {
		name  string
		call  func() error
		field string
		rule  string
	}{
		{"blank title", func() error { _, err := svc.Create(ctx, "alice", " ", "", ""); return err }, "title", "notblank"},
		{"long title", func() error { _, err := svc.Create(ctx, "alice", strings.Repeat("x", 101), "", ""); return err }, "title", "max"},
		{"long description", func() error { _, err := svc.Create(ctx, "alice", "ok", strings.Repeat("d", 501), ""); return err }, "description", "max"},
		{"unknown status", func() error { _, err := svc.Update(ctx, "alice", task.ID, dom.TaskPatch{Status: &bad}); return err }, "status", "taskstatus"},
		{"rating zero", func() error { _, err := svc.Rate(ctx, "alice", task.ID, 0); return err }, "rating", "min"},
		{"rating six", func() error { _, err := svc.Rate(ctx, "alice", task.ID, 6); return err }, "rating", "max"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.ErrorIs(t, err, ErrInvalidTask)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
			assert.Equal(t, tc.rule, fe.Rule)
		})
	}
}
