package service

import (
	"context"
	"sort"

	dom "Tasker/internal/domain"
	"Tasker/internal/repo"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"Tasker/internal/cache"
)

// AnalyticsService answers the read-only aggregate queries over a caller's tasks.
type AnalyticsService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
	log   logrus.FieldLogger
}

// NewAnalyticsService creates an AnalyticsService. If c is nil, caching is disabled.
func NewAnalyticsService(r repo.TaskRepo, c *cache.TaskCache, log logrus.FieldLogger) *AnalyticsService {
	return &AnalyticsService{repo: r, cache: c, log: log}
}

// TaskCounts groups the caller's tasks by status and adds the total count,
// which is queried on its own rather than summed from the groups.
func (s *AnalyticsService) TaskCounts(ctx context.Context, userID string) (dom.TaskCounts, error) {
	if s.cache == nil {
		return s.loadCounts(ctx, userID)
	}
	return readThrough(ctx, s.cache, &s.sf, s.log, userID, cachedQuery[dom.TaskCounts]{
		name: "counts",
		get:  s.cache.GetCounts,
		set:  s.cache.SetCounts,
		load: s.loadCounts,
	})
}

func (s *AnalyticsService) loadCounts(ctx context.Context, userID string) (dom.TaskCounts, error) {
	groups, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return dom.TaskCounts{}, err
	}
	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return dom.TaskCounts{}, err
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Status < groups[j].Status })
	return dom.TaskCounts{TaskCounts: groups, TotalCount: total}, nil
}

// AverageRatings averages the ratings of the caller's rated tasks per status
// and overall. Unrated tasks are ignored.
func (s *AnalyticsService) AverageRatings(ctx context.Context, userID string) (dom.AverageRatings, error) {
	if s.cache == nil {
		return s.loadRatings(ctx, userID)
	}
	return readThrough(ctx, s.cache, &s.sf, s.log, userID, cachedQuery[dom.AverageRatings]{
		name: "ratings",
		get:  s.cache.GetRatings,
		set:  s.cache.SetRatings,
		load: s.loadRatings,
	})
}

func (s *AnalyticsService) loadRatings(ctx context.Context, userID string) (dom.AverageRatings, error) {
	sums, err := s.repo.RatingsByStatus(ctx, userID)
	if err != nil {
		return dom.AverageRatings{}, err
	}
	return SummarizeRatings(sums), nil
}

// SummarizeRatings turns per-status sums into rounded averages sorted by
// status, plus the overall average across every group. With no rated tasks
// the overall summary is zero.
func SummarizeRatings(sums []dom.RatingSum) dom.AverageRatings {
	out := dom.AverageRatings{AverageRatings: make([]dom.StatusRating, 0, len(sums))}
	var total, count int64
	for _, g := range sums {
		if g.Count == 0 {
			continue
		}
		out.AverageRatings = append(out.AverageRatings, dom.StatusRating{
			Status:        g.Status,
			AverageRating: RoundedAverage(g.Sum, g.Count),
			Count:         g.Count,
		})
		total += g.Sum
		count += g.Count
	}
	sort.Slice(out.AverageRatings, func(i, j int) bool {
		return out.AverageRatings[i].Status < out.AverageRatings[j].Status
	})
	out.OverallStats = dom.OverallRating{
		OverallAverageRating: RoundedAverage(total, count),
		TotalRatedTasks:      count,
	}
	return out
}

// RoundedAverage returns sum/count rounded half away from zero to two decimals,
// computed on integers so that no binary floating point error creeps in.
func RoundedAverage(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	neg := sum < 0
	if neg {
		sum = -sum
	}
	hundredths := (sum*200 + count) / (2 * count)
	if neg {
		hundredths = -hundredths
	}
	return float64(hundredths) / 100
}
