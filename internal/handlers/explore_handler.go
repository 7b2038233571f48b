package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/services"
)

// JobSearcher is the external listing search used by the explore page.
type JobSearcher interface {
	Search(ctx context.Context, p services.SearchParams) *services.SearchResult
}

type ExploreHandler struct {
	Base
	Search JobSearcher
}

func NewExploreHandler(base Base, search JobSearcher) *ExploreHandler {
	return &ExploreHandler{Base: base, Search: search}
}

// Explore is GET /explore-jobs?q=&location=&country=&page=.
func (h *ExploreHandler) Explore(c *gin.Context) {
	params := services.SearchParams{
		Query:    strings.TrimSpace(c.Query("q")),
		Location: strings.TrimSpace(c.Query("location")),
		Country:  strings.ToLower(strings.TrimSpace(c.DefaultQuery("country", services.DefaultCountry))),
		Page:     pageQuery(c),
		PerPage:  services.DefaultResultsPerPage,
	}

	data := gin.H{
		"Title":    "Explore jobs",
		"Query":    params.Query,
		"Location": params.Location,
		"Country":  params.Country,
	}

	res := h.Search.Search(c, params)
	if res == nil {
		h.Log.Warn(c, "external search unavailable", "action", "explore_jobs", "user_id", userID(c), "query", params.Query)
		addFlash(c, flashWarning, "Job search is temporarily unavailable. Please try again later.")
	} else {
		data["Result"] = res
		data["HasPrev"] = res.Page > 1
		data["HasNext"] = res.Page*res.PerPage < res.Total
		data["PrevPage"] = res.Page - 1
		data["NextPage"] = res.Page + 1
	}
	render(c, http.StatusOK, "explore_jobs.html", data)
}
