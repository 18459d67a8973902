package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/armaanamatya/HackUTD2025/internal/jobs"
	"github.com/armaanamatya/HackUTD2025/internal/jsonutil"
	"github.com/armaanamatya/HackUTD2025/internal/listings"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CURA Agent API Server",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/respond":                     "POST",
			"/respond-with-files":          "POST",
			"/research":                    "POST",
			"/research-with-files":         "POST",
			"/project-planning":            "POST",
			"/project-planning-with-files": "POST",
			"/jobs":                        "GET",
			"/jobs/{job_id}":               "GET, DELETE",
			"/listings":                    "GET",
			"/listings/search":             "POST",
			"/listings/stats":              "GET",
			"/config":                      "GET",
		},
	})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"llm_config": gin.H{"model": s.model},
		"status":     "ready",
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"db_connected": s.store != nil})
}

func (s *Server) submit(c *gin.Context, jobType string, input jobs.Input, run jobs.Runner) {
	job, err := s.manager.Submit(c.Request.Context(), jobType, input, run)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (s *Server) handleRespond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.submit(c, "respond", jobs.Input{UserQuery: req.UserQuery}, func(ctx context.Context, input jobs.Input) (string, error) {
		return s.factory.RunResponseWorkflow(ctx, input.UserQuery)
	})
}

func (s *Server) handleRespondWithFiles(c *gin.Context) {
	var req respondWithFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	input := jobs.Input{UserQuery: req.UserQuery, Files: toFileContexts(req.Files)}
	s.submit(c, "respond-with-files", input, func(ctx context.Context, input jobs.Input) (string, error) {
		return s.factory.RunResponseWorkflow(ctx, jobs.QueryWithContext(input.UserQuery, input.Files, jobs.InstructionRespond))
	})
}

func (s *Server) handleResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.submit(c, "property_insights", jobs.Input{UserQuery: req.Topic}, func(ctx context.Context, input jobs.Input) (string, error) {
		return s.factory.RunInsightsAnalysis(ctx, input.UserQuery)
	})
}

func (s *Server) handleResearchWithFiles(c *gin.Context) {
	var req researchWithFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	input := jobs.Input{UserQuery: req.Topic, Files: toFileContexts(req.Files)}
	s.submit(c, "research-with-files", input, func(ctx context.Context, input jobs.Input) (string, error) {
		return s.factory.RunInsightsAnalysis(ctx, jobs.QueryWithContext(input.UserQuery, input.Files, jobs.InstructionResearch))
	})
}

func (s *Server) handleProjectPlanning(c *gin.Context) {
	var req projectPlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.submit(c, "report_generation", jobs.Input{UserQuery: req.ProjectDescription}, func(ctx context.Context, input jobs.Input) (string, error) {
		return s.factory.RunReportGeneration(ctx, input.UserQuery)
	})
}

func (s *Server) handleProjectPlanningWithFiles(c *gin.Context) {
	var req projectPlanningWithFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	input := jobs.Input{UserQuery: req.ProjectDescription, Files: toFileContexts(req.Files)}
	s.submit(c, "project-planning-with-files", input, func(ctx context.Context, input jobs.Input) (string, error) {
		return s.factory.RunReportGeneration(ctx, jobs.QueryWithContext(input.UserQuery, input.Files, jobs.InstructionPlanning))
	})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (s *Server) handleListJobs(c *gin.Context) {
	all, err := s.manager.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	out := make([]jobResponse, 0, len(all))
	for _, job := range all {
		out = append(out, toJobResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (s *Server) handleDeleteJob(c *gin.Context) {
	id := c.Param("id")
	if err := s.manager.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job " + id + " deleted"})
}

func (s *Server) handleListings(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not connected"})
		return
	}
	filter := listings.SearchFilter{
		City:         c.Query("city"),
		State:        c.Query("state"),
		PropertyType: c.Query("property_type"),
		Status:       c.Query("status"),
		MinPrice:     queryFloat(c, "min_price"),
		MaxPrice:     queryFloat(c, "max_price"),
		Limit:        queryInt(c, "limit", listings.MaxSearchLimit),
	}
	results, err := s.store.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	total, err := s.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listings":       results,
		"total_count":    total,
		"returned_count": len(results),
		"limit":          filter.EffectiveLimit(),
	})
}

type listingSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// handleListingsSearch does a free-text match over address, city,
// neighborhood and zip.
func (s *Server) handleListingsSearch(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not connected"})
		return
	}
	var req listingSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > listings.MaxSearchLimit {
		limit = listings.DefaultSearchLimit
	}
	all, err := s.store.Search(c.Request.Context(), listings.SearchFilter{Limit: listings.MaxSearchLimit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	needle := strings.ToLower(strings.TrimSpace(req.Query))
	results := make([]listings.Listing, 0, limit)
	for _, l := range all {
		if needle != "" && !matchesFreeText(l, needle) {
			continue
		}
		results = append(results, l)
		if len(results) >= limit {
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"query": req.Query, "results": results, "count": len(results)})
}

func matchesFreeText(l listings.Listing, needle string) bool {
	for _, field := range []string{l.Address, l.City, l.Neighborhood, l.ZipCode} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *Server) handleListingsStats(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not connected"})
		return
	}
	stats, err := s.store.Stats(c.Request.Context(), listings.StatsFilter{
		City:         c.Query("city"),
		State:        c.Query("state"),
		PropertyType: c.Query("property_type"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_listings": stats.TotalListings,
		"price":          gin.H{"min": stats.MinPrice, "max": stats.MaxPrice, "avg": stats.AvgPrice},
		"square_feet":    gin.H{"min": stats.MinSquareFeet, "max": stats.MaxSquareFeet, "avg": stats.AvgSquareFeet},
		"by_status":      stats.StatusBreakdown,
		"by_type":        stats.TypeBreakdown,
		"last_updated":   jsonutil.Timestamp(),
	})
}

func queryFloat(c *gin.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
