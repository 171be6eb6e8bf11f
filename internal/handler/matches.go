package handler

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/service"
	"github.com/maxviazov/winmix-match-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

// Register mounts the match routes. strict guards the write endpoint on top of the group's
// own limiter.
func (h *MatchHandler) Register(r *gin.RouterGroup, strict gin.HandlerFunc) {
	g := r.Group("/matches")
	{
		g.GET("", h.list)
		g.GET("/statistics", h.statistics)
		g.GET("/export", h.export)
		g.POST("", strict, h.create)
	}
}

type matchListResponse struct {
	Items       []model.Match     `json:"items"`
	TotalCount  int               `json:"total_count"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	TotalPages  int               `json:"total_pages"`
	Statistics  model.Statistics  `json:"statistics"`
	SkippedRows []engine.RowError `json:"skipped_rows,omitempty"`
}

func (h *MatchHandler) list(c *gin.Context) {
	q, err := bindMatchQuery(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.Query(c.Request.Context(), q.params())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, matchListResponse{
		Items:       res.Items,
		TotalCount:  res.TotalCount,
		Page:        q.Page,
		Limit:       q.Limit,
		TotalPages:  engine.TotalPages(res.TotalCount, q.Limit),
		Statistics:  res.Statistics,
		SkippedRows: res.Skipped,
	})
}

func (h *MatchHandler) statistics(c *gin.Context) {
	q, err := bindMatchQuery(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	st, err := h.svc.Statistics(c.Request.Context(), q.filter(), q.teamMode())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, st)
}

func (h *MatchHandler) export(c *gin.Context) {
	q, err := bindMatchQuery(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	exp, err := h.svc.Export(c.Request.Context(), q.filter(), q.teamMode(), q.sortConfig())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(exp.Body))
}

type createMatchRequest struct {
	HomeTeam          string `json:"home_team"`
	AwayTeam          string `json:"away_team"`
	HalfTimeHomeGoals *int   `json:"half_time_home_goals"`
	HalfTimeAwayGoals *int   `json:"half_time_away_goals"`
	FullTimeHomeGoals *int   `json:"full_time_home_goals"`
	FullTimeAwayGoals *int   `json:"full_time_away_goals"`
	League            string `json:"league"`
	Season            string `json:"season"`
	Date              string `json:"date"`
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "malformed JSON"}}))
		return
	}
	in := service.CreateMatchInput{
		HomeTeam:          req.HomeTeam,
		AwayTeam:          req.AwayTeam,
		HalfTimeHomeGoals: req.HalfTimeHomeGoals,
		HalfTimeAwayGoals: req.HalfTimeAwayGoals,
		FullTimeHomeGoals: req.FullTimeHomeGoals,
		FullTimeAwayGoals: req.FullTimeAwayGoals,
		League:            req.League,
		Season:            req.Season,
	}
	// an empty date is left zero and reported by the service with the other fields
	if d := strings.TrimSpace(req.Date); d != "" {
		t, _, err := parseQueryDate(d)
		if err != nil {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "date", Message: "must be an RFC3339 timestamp or YYYY-MM-DD"}}))
			return
		}
		in.Date = t
	}
	m, err := h.svc.CreateMatch(c.Request.Context(), in)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}
