package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calmly/calmly-backend/internal/services"
)

type MoodHandler struct {
	moodService services.MoodService
}

func NewMoodHandler(moodService services.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

func (mh *MoodHandler) Create(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	var input services.MoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	mood, err := mh.moodService.Create(c.Request.Context(), userID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mood": mood})
}

func (mh *MoodHandler) List(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moods, err := mh.moodService.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"moods": moods})
}

func (mh *MoodHandler) Get(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	mood, err := mh.moodService.Get(c.Request.Context(), userID, moodID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"mood": mood})
}

func (mh *MoodHandler) Update(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	var input services.MoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	mood, err := mh.moodService.Update(c.Request.Context(), userID, moodID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"mood": mood})
}

func (mh *MoodHandler) Delete(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	if err := mh.moodService.Delete(c.Request.Context(), userID, moodID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "mood entry deleted"})
}
