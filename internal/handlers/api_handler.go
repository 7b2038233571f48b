package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/services"
)

// APIHandler serves the read-only JSON API under /api/v1.
type APIHandler struct {
	Base
	JobService *services.JobService
}

func NewAPIHandler(base Base, jobs *services.JobService) *APIHandler {
	return &APIHandler{Base: base, JobService: jobs}
}

// HealthCheck is GET /api/v1/health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListJobs is GET /api/v1/jobs?page=.
func (h *APIHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.List(c, pageQuery(c))
	if err != nil {
		h.apiError(c, "api_list_jobs", nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":     jobs.Items,
		"page":     jobs.Page,
		"per_page": jobs.PerPage,
		"total":    jobs.Total,
		"pages":    jobs.Pages(),
	})
}

// GetJob is GET /api/v1/jobs/:id.
func (h *APIHandler) GetJob(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	job, err := h.JobService.Get(c, id)
	if err != nil {
		h.apiError(c, "api_get_job", id, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *APIHandler) apiError(c *gin.Context, action string, targetID any, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	h.Log.Error(c, "request failed", "action", action, "target_id", targetID, "error", err)
	h.Reporter.CaptureException(action, err, "target_id", targetID)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
