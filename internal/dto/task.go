package dto

import (
	"time"

	dom "Tasker/internal/domain"
)

type CreateTaskRequest struct {
	Title       string           `json:"title" binding:"required,notblank,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Status      Optional[string] `json:"status" binding:"omitempty,taskstatus" swaggertype:"string"`
}

// UpdateTaskRequest only overwrites the keys present in the body. An explicit
// null clears description; for title and status it fails validation.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title" binding:"omitempty,notblank,max=100" swaggertype:"string"`
	Description Optional[string] `json:"description" binding:"omitempty,max=500" swaggertype:"string"`
	Status      Optional[string] `json:"status" binding:"omitempty,taskstatus" swaggertype:"string"`
}

// Patch converts the request into the domain patch.
func (r UpdateTaskRequest) Patch() dom.TaskPatch {
	var patch dom.TaskPatch
	patch.Title = r.Title.Ptr()
	patch.Description = r.Description.Ptr()
	if s := r.Status.Ptr(); s != nil {
		status := dom.Status(*s)
		patch.Status = &status
	}
	return patch
}

type RateTaskRequest struct {
	Rating *int `json:"rating" binding:"required,min=1,max=5"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Rating      *int      `json:"rating,omitempty"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskData struct {
	Task TaskResponse `json:"task"`
}

type ListTasksData struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

func NewTaskResponse(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Rating:      t.Rating,
		User:        t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewListTasksData(list []dom.Task) ListTasksData {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = NewTaskResponse(list[i])
	}
	return ListTasksData{Tasks: out, Count: len(out)}
}
