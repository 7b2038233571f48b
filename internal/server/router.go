// Package server assembles the gin engine: middleware, templates and routes.
package server

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/handlers"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/reporting"
	"github.com/justsurfingit/job-board/internal/services"
	"github.com/justsurfingit/job-board/internal/storage"
)

// Deps are the collaborators the routes are built from. Extractor and Local
// may be nil.
type Deps struct {
	Log      logging.Logger
	Reporter *reporting.Reporter

	Users    *services.UserService
	Jobs     *services.JobService
	Sessions *auth.SessionManager
	Search   handlers.JobSearcher

	Extractor services.JobExtractor
	Assets    storage.AssetStore
	Local     *storage.LocalStore

	CORSOrigins []string
}

func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := handlers.Templates(d.Assets)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = handlers.MaxImageBytes + 1<<20

	r.Use(
		handlers.Recovery(d.Log, d.Reporter),
		handlers.RequestLogger(d.Log),
		handlers.SameOrigin(),
		handlers.LoadUser(d.Sessions, d.Users, d.Log),
	)

	base := handlers.Base{Log: d.Log, Reporter: d.Reporter}
	jobH := handlers.NewJobHandler(base, d.Jobs, d.Users, d.Extractor)
	authH := handlers.NewAuthHandler(base, d.Users, d.Sessions)
	accountH := handlers.NewAccountHandler(base, d.Users, d.Sessions, d.Local)
	exploreH := handlers.NewExploreHandler(base, d.Search)
	apiH := handlers.NewAPIHandler(base, d.Jobs)

	r.GET("/", jobH.Index)
	r.GET("/index", jobH.Index)
	r.GET("/about", jobH.About)
	r.GET("/explore-jobs", exploreH.Explore)
	r.GET("/job/:id", jobH.Detail)
	r.GET("/user/:username", jobH.UserJobs)
	r.GET("/uploads/:name", accountH.Upload)
	r.GET("/logout", authH.Logout)

	guest := r.Group("/", handlers.RedirectIfLoggedIn())
	{
		guest.GET("/register", authH.RegisterPage)
		guest.POST("/register", authH.Register)
		guest.GET("/login", authH.LoginPage)
		guest.POST("/login", authH.Login)
	}

	member := r.Group("/", handlers.RequireLogin())
	{
		member.GET("/add-job", jobH.AddPage)
		member.POST("/add-job", jobH.Add)
		member.POST("/add-job/extract", jobH.Extract)
		member.GET("/job/:id/edit", jobH.EditPage)
		member.POST("/job/:id/edit", jobH.Edit)
		member.POST("/job/:id/delete", jobH.Delete)
		member.GET("/profile", accountH.ProfilePage)
		member.POST("/profile", accountH.Profile)
		member.POST("/delete-account", accountH.DeleteAccount)
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	if len(d.CORSOrigins) == 0 || (len(d.CORSOrigins) == 1 && d.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = d.CORSOrigins
	}

	api := r.Group("/api/v1", cors.New(corsCfg))
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/jobs", apiH.ListJobs)
		api.GET("/jobs/:id", apiH.GetJob)
	}

	r.NoRoute(jobH.NotFound)
	return r, nil
}
