package handlers

import (
	"net/http"

	"Tasker/internal/auth"
	"Tasker/internal/dto"
	"Tasker/internal/response"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalyticsHandler struct {
	svc    *service.AnalyticsService
	log    logrus.FieldLogger
	expose bool
}

func NewAnalyticsHandler(svc *service.AnalyticsService, log logrus.FieldLogger, expose bool) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log, expose: expose}
}

// TaskCounts godoc
// @Summary      Count the caller's tasks per status
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope{data=dto.TaskCountsData}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/task-counts [get]
func (h *AnalyticsHandler) TaskCounts(c *gin.Context) {
	counts, err := h.svc.TaskCounts(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		fail(c, h.log, h.expose, "task_counts", "Error fetching task counts", err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.NewTaskCountsData(counts))
}

// AverageRatings godoc
// @Summary      Average rating per status and overall
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope{data=dto.AverageRatingsData}
// @Failure      500  {object}  response.Envelope
// @Router       /analytics/average-ratings [get]
func (h *AnalyticsHandler) AverageRatings(c *gin.Context) {
	ratings, err := h.svc.AverageRatings(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		fail(c, h.log, h.expose, "average_ratings", "Error fetching average ratings", err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.NewAverageRatingsData(ratings))
}
