package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/config"
	"github.com/nutritrack/internal/db"
	"github.com/nutritrack/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	api := handler.NewAPI(db.DB)
	Register(r, api)
	return r
}

// Register 挂载全部 API 路由，便于测试注入自定义 handler 依赖。
func Register(r *gin.Engine, api *handler.API) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	group := r.Group("/api")
	{
		group.GET("/profile", api.GetProfile)
		group.PUT("/profile", api.UpdateProfile)

		group.GET("/dashboard", api.GetDashboard)

		group.GET("/logs", api.ListLogs)
		group.POST("/logs", api.CreateLog)
		group.DELETE("/logs/:id", api.DeleteLog)

		group.GET("/weight", api.ListWeights)
		group.POST("/weight", api.CreateWeight)

		group.GET("/chat", api.GetChatHistory)
		group.POST("/chat", api.SendChatMessage)
		group.POST("/chat/:id/log", api.LogChatFood)
		group.DELETE("/chat", api.ClearChat)

		group.GET("/settings", api.GetSettings)
		group.PUT("/settings", api.UpdateSettings)
		group.POST("/settings/test-ai", api.TestAIConnection)
	}
}
