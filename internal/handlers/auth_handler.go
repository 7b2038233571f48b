package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/services"
)

type AuthHandler struct {
	Base
	Users    *services.UserService
	Sessions *auth.SessionManager
}

func NewAuthHandler(base Base, users *services.UserService, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{Base: base, Users: users, Sessions: sessions}
}

// RegisterPage is GET /register.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": dtos.RegisterForm{}})
}

// Register is POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dtos.RegisterForm
	h.bindForm(c, &form)

	user, err := h.Users.Register(c, form)
	if ve, ok := services.AsValidation(err); ok {
		form.Password, form.ConfirmPassword = "", ""
		render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": form, "Errors": ve.Fields})
		return
	}
	if err != nil {
		h.fail(c, "register", nil, err)
		return
	}

	addFlash(c, flashSuccess, "Congratulations, "+user.Username+"! Your account has been created. You can now log in.")
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage is GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  dtos.LoginForm{},
		"Next":  auth.SafeNext(c.Query("next"), ""),
	})
}

// Login is POST /login. The post-login target comes from ?next= (or the
// form's hidden next field) and must be a local path.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dtos.LoginForm
	h.bindForm(c, &form)

	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	next = auth.SafeNext(next, "")

	user, err := h.Users.Authenticate(c, form)
	if ve, ok := services.AsValidation(err); ok {
		form.Password = ""
		render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Form": form, "Errors": ve.Fields, "Next": next})
		return
	}
	if errors.Is(err, services.ErrAuthentication) {
		h.Log.Warn(c, "failed login attempt", "action", "login", "email", form.Email)
		addFlash(c, flashDanger, "Invalid email or password.")
		if next != "" {
			c.Redirect(http.StatusFound, loginURL(next))
			return
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil {
		h.fail(c, "login", nil, err)
		return
	}

	if err := h.Sessions.Login(c, c.Writer, user.ID, form.Remember); err != nil {
		h.fail(c, "login", user.ID, err)
		return
	}

	h.Log.Info(c, "user logged in", "user_id", user.ID, "remember", form.Remember)
	addFlash(c, flashSuccess, "Hello, "+user.Username+"! You have successfully logged in.")
	c.Redirect(http.StatusFound, auth.SafeNext(next, "/"))
}

// Logout is GET /logout. It is a no-op for anonymous visitors apart from the
// flash message.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Writer, c.Request); err != nil {
		h.Log.Error(c, "session revoke failed", "action", "logout", "user_id", userID(c), "error", err)
	}
	if u := CurrentUser(c); u != nil {
		h.Log.Info(c, "user logged out", "user_id", u.ID)
	}
	addFlash(c, flashInfo, "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}
