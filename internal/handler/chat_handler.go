package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/service"
)

type chatSendRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

type chatLogFoodRequest struct {
	MealType string `json:"mealType" binding:"required"`
}

// GetChatHistory 返回聊天记录；为空时返回一条本地化欢迎语。
func (a *API) GetChatHistory(c *gin.Context) {
	messages, err := a.chat.History()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendChatMessage 保存用户消息并返回 AI 回复。
func (a *API) SendChatMessage(c *gin.Context) {
	var req chatSendRequest
	if !bindJSON(c, &req, "invalid chat payload") {
		return
	}

	messages, err := a.chat.Send(c.Request.Context(), req.Text, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatEmptyMessage):
			respondError(c, http.StatusBadRequest, "message text or image is required")
		case errors.Is(err, service.ErrImageInvalidDataURL):
			respondError(c, http.StatusBadRequest, "invalid image payload")
		case errors.Is(err, service.ErrAIAPIKeyMissing):
			respondError(c, http.StatusConflict, "AI provider API key is not configured")
		default:
			respondError(c, http.StatusInternalServerError, "failed to process chat message")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// LogChatFood 把消息中的营养提案写入台账。
func (a *API) LogChatFood(c *gin.Context) {
	var req chatLogFoodRequest
	if !bindJSON(c, &req, "invalid log payload") {
		return
	}

	entry, err := a.chat.LogFood(c.Param("id"), req.MealType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatMessageNotFound):
			respondError(c, http.StatusNotFound, "chat message not found")
		case errors.Is(err, service.ErrChatNoFoodData):
			respondError(c, http.StatusBadRequest, "chat message has no food data")
		case errors.Is(err, service.ErrLogInvalidMealType):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to log food from chat")
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ClearChat 清空聊天记录。
func (a *API) ClearChat(c *gin.Context) {
	welcome, err := a.chat.Clear()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear chat history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": []service.ChatMessageView{welcome}})
}
