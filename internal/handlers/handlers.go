// Package handlers contains the gin handlers for the job board's HTML pages
// and its read-only JSON API, plus the middleware that resolves the session
// user for each request.
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/reporting"
	"github.com/justsurfingit/job-board/internal/services"
)

const userKey = "user"

// Base carries what every handler needs to log and report failures.
type Base struct {
	Log      logging.Logger
	Reporter *reporting.Reporter
}

// CurrentUser returns the logged-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func userID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// fail logs err with the acting user, the target and the action, then
// answers with the page matching its kind. Authorization failures are handled
// by the callers since each redirects somewhere different.
func (b *Base) fail(c *gin.Context, action string, targetID any, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		b.Log.Info(c, "not found", "action", action, "user_id", userID(c), "target_id", targetID)
		b.notFound(c)
	default:
		b.Log.Error(c, "request failed", "action", action, "user_id", userID(c), "target_id", targetID, "error", err)
		b.Reporter.CaptureException(action, err, "user_id", userID(c), "target_id", targetID, "path", c.Request.URL.Path)
		render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Server error"})
	}
}

// denied logs an authorization failure and sends the user to a safe page.
func (b *Base) denied(c *gin.Context, action string, targetID any, msg, to string) {
	b.Log.Warn(c, "permission denied", "action", action, "user_id", userID(c), "target_id", targetID)
	addFlash(c, flashDanger, msg)
	c.Redirect(http.StatusFound, to)
}

// bindForm fills form from the request body. A body that cannot be parsed
// leaves the form partly empty, so validation reports the missing fields.
func (b *Base) bindForm(c *gin.Context, form any) {
	if err := c.ShouldBind(form); err != nil {
		b.Log.Debug(c, "form bind failed", "path", c.Request.URL.Path, "user_id", userID(c), "error", err)
	}
}

func (b *Base) notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page not found"})
}

// idParam parses the :id route parameter. Non-numeric ids are treated as
// absent records.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageQuery reads ?page=, defaulting to 1 on anything unparsable.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func loginURL(next string) string {
	return "/login?next=" + url.QueryEscape(next)
}
