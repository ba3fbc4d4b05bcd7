package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/service"
)

type settingsRequest struct {
	AIProvider     string `json:"aiProvider"`
	OpenAIAPIKey   string `json:"openaiApiKey"`
	DeepSeekAPIKey string `json:"deepseekApiKey"`
	AdvisorPrompt  string `json:"advisorPrompt"`
}

type testConnectionRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// maskAPIKey 只暴露尾部字符，避免完整密钥回流到前端。
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		if key == "" {
			return ""
		}
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// GetSettings 返回系统设置，密钥脱敏后输出。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"aiProvider":     settings.AIProvider,
		"openaiApiKey":   maskAPIKey(settings.OpenAIAPIKey),
		"deepseekApiKey": maskAPIKey(settings.DeepSeekAPIKey),
		"advisorPrompt":  settings.AdvisorPrompt,
	})
}

// UpdateSettings 保存系统设置。
func (a *API) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !bindJSON(c, &req, "invalid settings payload") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		AIProvider:     req.AIProvider,
		OpenAIAPIKey:   req.OpenAIAPIKey,
		DeepSeekAPIKey: req.DeepSeekAPIKey,
		AdvisorPrompt:  req.AdvisorPrompt,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"aiProvider": settings.AIProvider})
}

// TestAIConnection 用给定密钥探测 AI 平台连通性。
func (a *API) TestAIConnection(c *gin.Context) {
	var req testConnectionRequest
	if !bindJSON(c, &req, "invalid test payload") {
		return
	}

	err := a.system.TestAIConnection(c.Request.Context(), req.Provider, req.APIKey)
	if err != nil {
		if errors.Is(err, service.ErrAIAPIKeyMissing) {
			respondError(c, http.StatusBadRequest, "api key is required")
			return
		}
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
