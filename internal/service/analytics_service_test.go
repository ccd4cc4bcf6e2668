package service

import (
	"context"
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

func seedTask(t *testing.T, r repo.TaskRepo, userID string, status dom.Status, rating int) {
	t.Helper()
	ctx := context.Background()
	task, err := r.Create(ctx, dom.Task{UserID: userID, Title: "task", Status: status})
	require.NoError(t, err)
	if rating > 0 {
		_, err = r.SetRating(ctx, userID, task.ID, rating)
		require.NoError(t, err)
	}
}

func newAnalytics(t *testing.T) (*AnalyticsService, *repo.MemoryTaskRepo) {
	t.Helper()
	log, _ := test.NewNullLogger()
	r := repo.NewMemoryTaskRepo()
	return NewAnalyticsService(r, nil, log), r
}

func TestAnalytics_TaskCountsSortedByStatus(t *testing.T) {
	svc, r := newAnalytics(t)
	seedTask(t, r, "alice", dom.StatusPending, 0)
	seedTask(t, r, "alice", dom.StatusPending, 0)
	seedTask(t, r, "alice", dom.StatusCompleted, 0)
	seedTask(t, r, "bob", dom.StatusInProgress, 0)

	counts, err := svc.TaskCounts(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, []dom.StatusCount{
		{Status: dom.StatusCompleted, Count: 1},
		{Status: dom.StatusPending, Count: 2},
	}, counts.TaskCounts)
	assert.Equal(t, int64(3), counts.TotalCount)
}

func TestAnalytics_TaskCountsEmpty(t *testing.T) {
	svc, _ := newAnalytics(t)

	counts, err := svc.TaskCounts(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, counts.TaskCounts)
	assert.Zero(t, counts.TotalCount)
}

func TestAnalytics_AverageRatings(t *testing.T) {
	svc, r := newAnalytics(t)
	seedTask(t, r, "alice", dom.StatusPending, 4)
	seedTask(t, r, "alice", dom.StatusPending, 2)
	seedTask(t, r, "alice", dom.StatusCompleted, 0)
	seedTask(t, r, "bob", dom.StatusPending, 5)

	ratings, err := svc.AverageRatings(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, []dom.StatusRating{
		{Status: dom.StatusPending, AverageRating: 3.00, Count: 2},
	}, ratings.AverageRatings)
	assert.Equal(t, dom.OverallRating{OverallAverageRating: 3.00, TotalRatedTasks: 2}, ratings.OverallStats)
}

func TestAnalytics_AverageRatingsAcrossStatuses(t *testing.T) {
	svc, r := newAnalytics(t)
	seedTask(t, r, "alice", dom.StatusPending, 5)
	seedTask(t, r, "alice", dom.StatusInProgress, 4)
	seedTask(t, r, "alice", dom.StatusInProgress, 4)
	seedTask(t, r, "alice", dom.StatusInProgress, 5)
	seedTask(t, r, "alice", dom.StatusCompleted, 1)

	ratings, err := svc.AverageRatings(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, []dom.StatusRating{
		{Status: dom.StatusCompleted, AverageRating: 1, Count: 1},
		{Status: dom.StatusInProgress, AverageRating: 4.33, Count: 3},
		{Status: dom.StatusPending, AverageRating: 5, Count: 1},
	}, ratings.AverageRatings)
	assert.Equal(t, dom.OverallRating{OverallAverageRating: 3.8, TotalRatedTasks: 5}, ratings.OverallStats)
}

func TestAnalytics_NoRatedTasksDefaultsToZero(t *testing.T) {
	svc, r := newAnalytics(t)
	seedTask(t, r, "alice", dom.StatusPending, 0)

	ratings, err := svc.AverageRatings(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, ratings.AverageRatings)
	assert.Equal(t, dom.OverallRating{OverallAverageRating: 0, TotalRatedTasks: 0}, ratings.OverallStats)
}

func TestAnalytics_ReadsDoNotModifyTasks(t *testing.T) {
	svc, r := newAnalytics(t)
	seedTask(t, r, "alice", dom.StatusPending, 4)
	ctx := context.Background()

	before, err := r.List(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.TaskCounts(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.AverageRatings(ctx, "alice")
	require.NoError(t, err)

	after, err := r.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAnalytics_CacheIsInvalidatedByTaskWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log, _ := test.NewNullLogger()
	r := repo.NewMemoryTaskRepo()
	c := cache.NewTaskCache(rdb, time.Minute)
	tasks := NewTaskService(r, c, log)
	analytics := NewAnalyticsService(r, c, log)
	ctx := context.Background()

	task, err := tasks.Create(ctx, "alice", "one", "", "")
	require.NoError(t, err)

	ratings, err := analytics.AverageRatings(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, ratings.OverallStats.TotalRatedTasks)

	_, err = tasks.Rate(ctx, "alice", task.ID, 5)
	require.NoError(t, err)

	ratings, err = analytics.AverageRatings(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, dom.OverallRating{OverallAverageRating: 5, TotalRatedTasks: 1}, ratings.OverallStats)
}

func TestRoundedAverage(t *testing.T) {
	cases := []struct {
		sum, count int64
		want       float64
	}{
		{sum: 6, count: 2, want: 3},
		{sum: 7, count: 3, want: 2.33},
		{sum: 2, count: 3, want: 0.67},
		{sum: 5, count: 8, want: 0.63},
		{sum: 21, count: 8, want: 2.63},
		{sum: 19, count: 5, want: 3.8},
		{sum: 13, count: 3, want: 4.33},
		{sum: 0, count: 0, want: 0},
		{sum: -5, count: 8, want: -0.63},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundedAverage(tc.sum, tc.count), "%d/%d", tc.sum, tc.count)
	}
}

func TestSummarizeRatingsSkipsEmptyGroupsAndSorts(t *testing.T) {
	got := SummarizeRatings([]dom.RatingSum{
		{Status: dom.StatusPending, Sum: 9, Count: 2},
		{Status: dom.StatusInProgress, Sum: 0, Count: 0},
		{Status: dom.StatusCompleted, Sum: 3, Count: 1},
	})

	assert.Equal(t, []dom.StatusRating{
		{Status: dom.StatusCompleted, AverageRating: 3, Count: 1},
		{Status: dom.StatusPending, AverageRating: 4.5, Count: 2},
	}, got.AverageRatings)
	assert.Equal(t, dom.OverallRating{OverallAverageRating: 4, TotalRatedTasks: 3}, got.OverallStats)
}
