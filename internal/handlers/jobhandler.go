package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/services"
)

// JobHandler serves the job feed and the job create/edit/delete pages.
type JobHandler struct {
	Base
	JobService  *services.JobService
	UserService *services.UserService

	// Extractor prefills the add-job form from a pasted posting. Nil
	// disables the feature.
	Extractor services.JobExtractor
}

func NewJobHandler(base Base, jobs *services.JobService, users *services.UserService, extractor services.JobExtractor) *JobHandler {
	return &JobHandler{
		Base:        base,
		JobService:  jobs,
		UserService: users,
		Extractor:   extractor,
	}
}

func jobPath(id uint) string {
	return "/job/" + strconv.FormatUint(uint64(id), 10)
}

// Index is GET / and /index.
func (h *JobHandler) Index(c *gin.Context) {
	jobs, err := h.JobService.List(c, pageQuery(c))
	if err != nil {
		h.fail(c, "list_jobs", nil, err)
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"Title": "Jobs", "Jobs": jobs, "PageURL": "/?page="})
}

// About is GET /about.
func (h *JobHandler) About(c *gin.Context) {
	totalJobs, err := h.JobService.Count(c)
	if err != nil {
		h.fail(c, "about", nil, err)
		return
	}
	totalUsers, err := h.UserService.Count(c)
	if err != nil {
		h.fail(c, "about", nil, err)
		return
	}
	render(c, http.StatusOK, "about.html", gin.H{
		"Title":      "About us",
		"TotalJobs":  totalJobs,
		"TotalUsers": totalUsers,
	})
}

// Detail is GET /job/:id.
func (h *JobHandler) Detail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}
	job, err := h.JobService.Get(c, id)
	if err != nil {
		h.fail(c, "get_job", id, err)
		return
	}
	render(c, http.StatusOK, "job_detail.html", gin.H{
		"Title":   job.Title,
		"Job":     job,
		"IsOwner": job.OwnedBy(CurrentUser(c)),
	})
}

func (h *JobHandler) addPage(c *gin.Context, form dtos.JobForm, errs map[string]string) {
	render(c, http.StatusOK, "add_job.html", gin.H{
		"Title":          "Add job",
		"Form":           form,
		"Errors":         errs,
		"Categories":     models.Categories,
		"ExtractEnabled": h.Extractor != nil,
	})
}

// AddPage is GET /add-job.
func (h *JobHandler) AddPage(c *gin.Context) {
	h.addPage(c, dtos.JobForm{Category: models.CategoryIT}, nil)
}

// Add is POST /add-job.
func (h *JobHandler) Add(c *gin.Context) {
	var form dtos.JobForm
	h.bindForm(c, &form)

	job, err := h.JobService.Create(c, CurrentUser(c), form)
	if ve, ok := services.AsValidation(err); ok {
		h.addPage(c, form, ve.Fields)
		return
	}
	if err != nil {
		h.fail(c, "create_job", nil, err)
		return
	}

	addFlash(c, flashSuccess, "Job posted successfully!")
	c.Redirect(http.StatusFound, jobPath(job.ID))
}

// Extract is POST /add-job/extract: it turns pasted posting text into a
// prefilled add-job form for the user to review.
func (h *JobHandler) Extract(c *gin.Context) {
	if h.Extractor == nil {
		addFlash(c, flashInfo, "Automatic extraction is not configured.")
		c.Redirect(http.StatusFound, "/add-job")
		return
	}

	var req dtos.JobExtractionRequest
	if err := c.ShouldBind(&req); err != nil {
		addFlash(c, flashWarning, "Paste the job posting text first.")
		c.Redirect(http.StatusFound, "/add-job")
		return
	}

	draft, err := h.Extractor.Extract(c, req.RawText)
	if err != nil {
		h.Log.Warn(c, "job extraction failed", "action", "extract_job", "user_id", userID(c), "error", err)
		addFlash(c, flashWarning, "Could not extract the job details. Please fill in the form manually.")
		h.addPage(c, dtos.JobForm{Category: models.CategoryIT}, nil)
		return
	}

	addFlash(c, flashInfo, "Review the extracted details before posting.")
	h.addPage(c, *draft, nil)
}

// EditPage is GET /job/:id/edit.
func (h *JobHandler) EditPage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}
	job, err := h.JobService.Get(c, id)
	if err != nil {
		h.fail(c, "edit_job", id, err)
		return
	}
	if !job.OwnedBy(CurrentUser(c)) {
		h.denied(c, "edit_job", id, "You do not have permission to edit this job.", jobPath(id))
		return
	}
	h.editPage(c, id, dtos.JobFormFrom(job), nil)
}

func (h *JobHandler) editPage(c *gin.Context, id uint, form dtos.JobForm, errs map[string]string) {
	render(c, http.StatusOK, "edit_job.html", gin.H{
		"Title":      "Edit job",
		"JobID":      id,
		"Form":       form,
		"Errors":     errs,
		"Categories": models.Categories,
	})
}

// Edit is POST /job/:id/edit.
func (h *JobHandler) Edit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}
	var form dtos.JobForm
	h.bindForm(c, &form)

	job, err := h.JobService.Update(c, CurrentUser(c), id, form)
	if errors.Is(err, services.ErrAuthorization) {
		h.denied(c, "edit_job", id, "You do not have permission to edit this job.", jobPath(id))
		return
	}
	if ve, ok := services.AsValidation(err); ok {
		h.editPage(c, id, form, ve.Fields)
		return
	}
	if err != nil {
		h.fail(c, "edit_job", id, err)
		return
	}

	addFlash(c, flashSuccess, "Job updated successfully!")
	c.Redirect(http.StatusFound, jobPath(job.ID))
}

// Delete is POST /job/:id/delete.
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c)
		return
	}

	err := h.JobService.Delete(c, CurrentUser(c), id)
	if errors.Is(err, services.ErrAuthorization) {
		h.denied(c, "delete_job", id, "You do not have permission to delete this job.", jobPath(id))
		return
	}
	if err != nil {
		h.fail(c, "delete_job", id, err)
		return
	}

	addFlash(c, flashSuccess, "Job deleted.")
	c.Redirect(http.StatusFound, "/")
}

// UserJobs is GET /user/:username.
func (h *JobHandler) UserJobs(c *gin.Context) {
	username := c.Param("username")
	owner, jobs, err := h.JobService.ListByOwner(c, username, pageQuery(c))
	if err != nil {
		h.fail(c, "user_jobs", username, err)
		return
	}
	render(c, http.StatusOK, "user_jobs.html", gin.H{
		"Title":   owner.Username + "'s jobs",
		"Owner":   owner,
		"Jobs":    jobs,
		"PageURL": "/user/" + url.PathEscape(owner.Username) + "?page=",
	})
}

// NotFound answers unmatched routes.
func (h *JobHandler) NotFound(c *gin.Context) {
	h.notFound(c)
}
