package dto

import dom "Tasker/internal/domain"

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TaskCountsData struct {
	TaskCounts []StatusCountResponse `json:"taskCounts"`
	TotalCount int64                 `json:"totalCount"`
}

type StatusRatingResponse struct {
	Status        string  `json:"status"`
	AverageRating float64 `json:"averageRating"`
	Count         int64   `json:"count"`
}

type OverallStatsResponse struct {
	OverallAverageRating float64 `json:"overallAverageRating"`
	TotalRatedTasks      int64   `json:"totalRatedTasks"`
}

type AverageRatingsData struct {
	AverageRatings []StatusRatingResponse `json:"averageRatings"`
	OverallStats   OverallStatsResponse   `json:"overallStats"`
}

func NewTaskCountsData(c dom.TaskCounts) TaskCountsData {
	out := TaskCountsData{
		TaskCounts: make([]StatusCountResponse, len(c.TaskCounts)),
		TotalCount: c.TotalCount,
	}
	for i, sc := range c.TaskCounts {
		out.TaskCounts[i] = StatusCountResponse{Status: string(sc.Status), Count: sc.Count}
	}
	return out
}

func NewAverageRatingsData(r dom.AverageRatings) AverageRatingsData {
	out := AverageRatingsData{
		AverageRatings: make([]StatusRatingResponse, len(r.AverageRatings)),
		OverallStats: OverallStatsResponse{
			OverallAverageRating: r.OverallStats.OverallAverageRating,
			TotalRatedTasks:      r.OverallStats.TotalRatedTasks,
		},
	}
	for i, sr := range r.AverageRatings {
		out.AverageRatings[i] = StatusRatingResponse{
			Status:        string(sr.Status),
			AverageRating: sr.AverageRating,
			Count:         sr.Count,
		}
	}
	return out
}
