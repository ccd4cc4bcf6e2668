package domain

// StatusCount is the number of tasks in one status.
type StatusCount struct {
	Status Status
	Count  int64
}

// RatingSum is the raw rating aggregate of one status: the sum of ratings and
// the number of rated tasks. Averages are derived from it so every store rounds
// the same way.
type RatingSum struct {
	Status Status
	Sum    int64
	Count  int64
}

// StatusRating is the rounded average rating of one status.
type StatusRating struct {
	Status        Status
	AverageRating float64
	Count         int64
}

// OverallRating summarizes every rated task regardless of status.
type OverallRating struct {
	OverallAverageRating float64
	TotalRatedTasks      int64
}

type TaskCounts struct {
	TaskCounts []StatusCount
	TotalCount int64
}

type AverageRatings struct {
	AverageRatings []StatusRating
	OverallStats   OverallRating
}
