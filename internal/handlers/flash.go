package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "jobboard_flash"
	flashKey    = "flashes"

	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// addFlash queues a message for the next page the browser renders. Messages
// still pending in the request's cookie are kept ahead of the new one.
func addFlash(c *gin.Context, category, message string) {
	pending := pendingFlashes(c)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(flashKey, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlashes returns the messages queued by earlier requests plus any queued
// during this one, and clears the cookie.
func takeFlashes(c *gin.Context) []Flash {
	_, hadCookie := requestFlashCookie(c)
	out := pendingFlashes(c)
	c.Set(flashKey, []Flash{})
	if hadCookie || len(out) > 0 {
		clearFlashes(c)
	}
	return out
}

// pendingFlashes is the cookie's messages followed by those queued in this
// request. The cookie is decoded once per request; after that the context
// holds the merged list.
func pendingFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashKey); ok {
		return v.([]Flash)
	}
	var out []Flash
	if value, ok := requestFlashCookie(c); ok {
		if raw, err := base64.RawURLEncoding.DecodeString(value); err == nil {
			_ = json.Unmarshal(raw, &out)
		}
	}
	return out
}

func requestFlashCookie(c *gin.Context) (string, bool) {
	ck, err := c.Request.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func clearFlashes(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
