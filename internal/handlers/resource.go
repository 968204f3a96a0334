package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/calmly/calmly-backend/internal/services"
)

type ResourceHandler struct {
	resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (rh *ResourceHandler) Create(c *gin.Context) {
	var input services.ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	resource, err := rh.resourceService.Create(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resource": resource})
}

func (rh *ResourceHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	mood := c.Query("mood")
	resources, err := rh.resourceService.List(c.Request.Context(), limit, mood)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"resources": resources})
}

func (rh *ResourceHandler) Get(c *gin.Context) {
	resourceID, ok := pathUUID(c, "resource_id")
	if !ok {
		return
	}
	resource, err := rh.resourceService.Get(c.Request.Context(), resourceID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"resource": resource})
}

func (rh *ResourceHandler) Delete(c *gin.Context) {
	resourceID, ok := pathUUID(c, "resource_id")
	if !ok {
		return
	}
	if err := rh.resourceService.Delete(c.Request.Context(), resourceID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "resource deleted"})
}

func (rh *ResourceHandler) Recommend(c *gin.Context) {
	mood := c.Query("mood")
	limit := queryInt(c, "limit", 0)
	resources, err := rh.resourceService.Recommend(c.Request.Context(), mood, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"resources": resources})
}
