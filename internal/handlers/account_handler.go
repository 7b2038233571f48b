package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/services"
	"github.com/justsurfingit/job-board/internal/storage"
)

// MaxImageBytes bounds profile image uploads.
const MaxImageBytes = 5 << 20

type AccountHandler struct {
	Base
	Users    *services.UserService
	Sessions *auth.SessionManager

	// Local serves /uploads when images are kept on disk; nil with the S3
	// backend.
	Local *storage.LocalStore
}

func NewAccountHandler(base Base, users *services.UserService, sessions *auth.SessionManager, local *storage.LocalStore) *AccountHandler {
	return &AccountHandler{Base: base, Users: users, Sessions: sessions, Local: local}
}

func (h *AccountHandler) profilePage(c *gin.Context, form dtos.ProfileForm, errs map[string]string) {
	render(c, http.StatusOK, "profile.html", gin.H{
		"Title":  "Profile",
		"Form":   form,
		"Errors": errs,
	})
}

// ProfilePage is GET /profile.
func (h *AccountHandler) ProfilePage(c *gin.Context) {
	u := CurrentUser(c)
	h.profilePage(c, dtos.ProfileForm{Username: u.Username, Email: u.Email}, nil)
}

// Profile is POST /profile: username, email and an optional image.
func (h *AccountHandler) Profile(c *gin.Context) {
	user := CurrentUser(c)

	var form dtos.ProfileForm
	h.bindForm(c, &form)

	var upload *services.Upload
	fh, err := c.FormFile("profile_image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		h.profilePage(c, form, map[string]string{"profile_image": services.MsgImageType})
		return
	case fh.Size > MaxImageBytes:
		h.profilePage(c, form, map[string]string{"profile_image": "Image must be smaller than 5 MB."})
		return
	default:
		f, err := fh.Open()
		if err != nil {
			h.fail(c, "update_profile", user.ID, err)
			return
		}
		defer f.Close()
		upload = &services.Upload{Filename: fh.Filename, Body: f}
	}

	// Work on a copy so a failed update leaves the page header consistent.
	edited := *user
	err = h.Users.UpdateProfile(c, &edited, form, upload)
	if ve, ok := services.AsValidation(err); ok {
		h.profilePage(c, form, ve.Fields)
		return
	}
	if err != nil {
		h.fail(c, "update_profile", user.ID, err)
		return
	}

	addFlash(c, flashSuccess, "Your profile has been updated!")
	c.Redirect(http.StatusFound, "/profile")
}

// DeleteAccount is POST /delete-account.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user := CurrentUser(c)

	var form dtos.DeleteAccountForm
	h.bindForm(c, &form)
	if form.Password == "" || form.ConfirmDelete == "" {
		addFlash(c, flashDanger, "Account deletion failed. Please try again.")
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	jobs, err := h.Users.DeleteAccount(c, user, form)
	if errors.Is(err, services.ErrAuthorization) {
		h.denied(c, "delete_account", user.ID, services.MsgWrongPassword, "/profile")
		return
	}
	if ve, ok := services.AsValidation(err); ok {
		for _, msg := range ve.Fields {
			addFlash(c, flashDanger, msg)
		}
		c.Redirect(http.StatusFound, "/profile")
		return
	}
	if err != nil {
		h.fail(c, "delete_account", user.ID, err)
		return
	}

	if err := h.Sessions.Logout(c.Writer, c.Request); err != nil {
		h.Log.Error(c, "session revoke failed", "action", "delete_account", "user_id", user.ID, "error", err)
	}
	c.Set(userKey, nil)

	h.Log.Info(c, "account deleted", "action", "delete_account", "user_id", user.ID, "jobs_deleted", jobs)
	addFlash(c, flashInfo, "Your account and all of your jobs have been deleted.")
	c.Redirect(http.StatusFound, "/")
}

// Upload is GET /uploads/:name. Only server-generated names are served.
func (h *AccountHandler) Upload(c *gin.Context) {
	name := c.Param("name")
	if name == models.DefaultProfileImage {
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "image/jpeg", storage.DefaultImage())
		return
	}
	if h.Local == nil || !storage.ValidName(name) {
		h.notFound(c)
		return
	}

	path := h.Local.Path(name)
	if _, err := os.Stat(path); err != nil {
		h.notFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
