package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calmly/calmly-backend/internal/services"
)

type JournalHandler struct {
	journalService services.JournalService
}

func NewJournalHandler(journalService services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

func (jh *JournalHandler) Create(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	var input services.JournalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	journal, err := jh.journalService.Create(c.Request.Context(), userID, moodID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"journal": journal})
}

func (jh *JournalHandler) List(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	journals, err := jh.journalService.List(c.Request.Context(), userID, moodID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"journals": journals})
}

func (jh *JournalHandler) Get(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	journalID, ok := pathUUID(c, "journal_id")
	if !ok {
		return
	}
	journal, err := jh.journalService.Get(c.Request.Context(), userID, moodID, journalID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"journal": journal})
}

func (jh *JournalHandler) Update(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	journalID, ok := pathUUID(c, "journal_id")
	if !ok {
		return
	}
	var input services.JournalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	journal, err := jh.journalService.Update(c.Request.Context(), userID, moodID, journalID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"journal": journal})
}

func (jh *JournalHandler) Delete(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	moodID, ok := pathUUID(c, "mood_id")
	if !ok {
		return
	}
	journalID, ok := pathUUID(c, "journal_id")
	if !ok {
		return
	}
	if err := jh.journalService.Delete(c.Request.Context(), userID, moodID, journalID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "journal entry deleted"})
}
