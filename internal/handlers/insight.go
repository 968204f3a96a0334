package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calmly/calmly-backend/internal/services"
	"github.com/calmly/calmly-backend/internal/types"
)

type InsightHandler struct {
	insightService services.InsightService
}

func NewInsightHandler(insightService services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// Get returns cached insights when fresh, otherwise kicks off background
// generation and answers 202 so the client can poll.
func (ih *InsightHandler) Get(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	resp, err := ih.insightService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if resp.Status == types.InsightStatusGenerating {
		status = http.StatusAccepted
	}
	c.JSON(status, resp)
}
