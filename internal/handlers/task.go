package handlers

import (
	"net/http"

	"Tasker/internal/auth"
	dom "Tasker/internal/domain"
	"Tasker/internal/dto"
	"Tasker/internal/response"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	svc    *service.TaskService
	log    logrus.FieldLogger
	expose bool
}

// NewTaskHandler returns a TaskHandler. expose controls whether raw error
// text is included in 500 responses.
func NewTaskHandler(svc *service.TaskService, log logrus.FieldLogger, expose bool) *TaskHandler {
	return &TaskHandler{svc: svc, log: log, expose: expose}
}

// List godoc
// @Summary      List the caller's tasks, newest first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope{data=dto.ListTasksData}
// @Failure      401  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		fail(c, h.log, h.expose, "list_tasks", "Error fetching tasks", err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.NewListTasksData(list))
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Envelope{data=dto.TaskData}
// @Failure      404  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		fail(c, h.log, h.expose, "get_task", "Error fetching task", err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.TaskData{Task: dto.NewTaskResponse(t)})
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  response.Envelope{data=dto.TaskData}
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	var desc string
	if req.Description != nil {
		desc = *req.Description
	}
	var status dom.Status
	if st := req.Status.Ptr(); st != nil {
		status = dom.Status(*st)
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, desc, status)
	if err != nil {
		fail(c, h.log, h.expose, "create_task", "Error creating task", err)
		return
	}
	response.OK(c, http.StatusCreated, "Task created successfully", dto.TaskData{Task: dto.NewTaskResponse(t)})
}

// Update godoc
// @Summary      Update a task
// @Description  Only the keys present in the body are changed.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Param        id    path      string                 true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  response.Envelope{data=dto.TaskData}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"), req.Patch())
	if err != nil {
		fail(c, h.log, h.expose, "update_task", "Error updating task", err)
		return
	}
	response.OK(c, http.StatusOK, "Task updated successfully", dto.TaskData{Task: dto.NewTaskResponse(t)})
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id")); err != nil {
		fail(c, h.log, h.expose, "delete_task", "Error deleting task", err)
		return
	}
	response.OK(c, http.StatusOK, "Task deleted successfully", nil)
}

// Rate godoc
// @Summary      Rate a task from 1 to 5
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Param        id    path      string               true  "Task ID"
// @Param        body  body      dto.RateTaskRequest  true  "Rating"
// @Success      200   {object}  response.Envelope{data=dto.TaskData}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /tasks/{id}/rate [patch]
func (h *TaskHandler) Rate(c *gin.Context) {
	var req dto.RateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Rate(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"), *req.Rating)
	if err != nil {
		fail(c, h.log, h.expose, "rate_task", "Error rating task", err)
		return
	}
	response.OK(c, http.StatusOK, "Task rated successfully", dto.TaskData{Task: dto.NewTaskResponse(t)})
}
