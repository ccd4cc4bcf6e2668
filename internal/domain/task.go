package domain

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every accepted status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
	RatingMin         = 1
	RatingMax         = 5
)

// Task is the domain entity. It does not depend on gin, Postgres, Mongo or Redis.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      Status
	Rating      *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskPatch holds the fields supplied to an update. A nil field is left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
}

// Apply overwrites the supplied fields of t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}
