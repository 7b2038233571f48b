package handlers

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. Image names are resolved through
// assets, except the shared default image which is always served locally.
func Templates(assets storage.AssetStore) (*template.Template, error) {
	funcs := template.FuncMap{
		"imageURL": func(name string) string {
			if name == "" || name == models.DefaultProfileImage {
				return "/uploads/" + models.DefaultProfileImage
			}
			return assets.URL(name)
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"pages": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// render executes the named page with the current user, pending flashes and
// the page's own data.
func render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	data["User"] = CurrentUser(c)
	data["Flashes"] = takeFlashes(c)
	c.HTML(code, name, data)
}
