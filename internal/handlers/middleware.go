package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/reporting"
	"github.com/justsurfingit/job-board/internal/services"
)

// RequestLogger logs one line per request.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"user_id", userID(c),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error(c, "request", args...)
		default:
			log.Info(c, "request", args...)
		}
	}
}

// Recovery turns panics into the 500 page and reports them.
func Recovery(log logging.Logger, reporter *reporting.Reporter) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, v any) {
		log.Error(c, "panic recovered", "path", c.Request.URL.Path, "user_id", userID(c), "panic", fmt.Sprint(v))
		reporter.Recover(v)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Server error"})
		c.Abort()
	})
}

// LoadUser resolves the session cookie to a user and stores it on the
// context. Stale or forged cookies are treated as anonymous.
func LoadUser(sessions *auth.SessionManager, users *services.UserService, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessions.UserID(c.Request)
		if err != nil {
			if !errors.Is(err, auth.ErrSessionNotFound) {
				log.Debug(c, "ignoring session", "error", err)
			}
			c.Next()
			return
		}

		user, err := users.GetByID(c, id)
		switch {
		case err == nil:
			c.Set(userKey, user)
		case errors.Is(err, services.ErrNotFound):
			_ = sessions.Logout(c.Writer, c.Request)
		default:
			log.Error(c, "loading session user", "user_id", id, "error", err)
		}
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page, remembering where
// they were going.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			addFlash(c, flashInfo, "Please log in to access this page.")
			c.Redirect(http.StatusFound, loginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfLoggedIn keeps authenticated users away from the login and
// registration forms.
func RedirectIfLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SameOrigin rejects state-changing requests whose Origin header names a
// different host. Requests without an Origin header are let through.
func SameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host != c.Request.Host {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
