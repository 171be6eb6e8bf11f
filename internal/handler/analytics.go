package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/service"
	"github.com/maxviazov/winmix-match-service/pkg/response"
)

// maxAnalyticsBody bounds the event payload read from the client.
const maxAnalyticsBody = 16 << 10

type AnalyticsHandler struct {
	svc service.AnalyticsService
}

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Register(r *gin.RouterGroup) {
	r.POST("/analytics", h.track)
}

func (h *AnalyticsHandler) track(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAnalyticsBody)
	var ev model.AnalyticsEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "malformed JSON"}}))
		return
	}
	meta := service.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: requestID(c),
	}
	if err := h.svc.Track(c.Request.Context(), ev, meta); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"success": true})
}
