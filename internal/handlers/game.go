package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calmly/calmly-backend/internal/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (gh *GameHandler) Create(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	var input services.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	session, err := gh.gameService.Create(c.Request.Context(), userID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game_session": session})
}

func (gh *GameHandler) List(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	sessions, err := gh.gameService.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"game_sessions": sessions})
}

func (gh *GameHandler) Get(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	sessionID, ok := pathUUID(c, "game_id")
	if !ok {
		return
	}
	session, err := gh.gameService.Get(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"game_session": session})
}
