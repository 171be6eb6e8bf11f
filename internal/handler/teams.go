package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/winmix-match-service/internal/service"
	"github.com/maxviazov/winmix-match-service/pkg/response"
)

type TeamHandler struct {
	svc service.MatchService
}

func NewTeamHandler(svc service.MatchService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	r.GET("/teams", h.list)
}

// list returns every team name that appears in the data, for the team pickers.
func (h *TeamHandler) list(c *gin.Context) {
	teams, err := h.svc.Teams(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"teams": teams, "count": len(teams)})
}
