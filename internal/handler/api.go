package handler

import (
	"github.com/nutritrack/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	logs     *service.LogService
	profiles *service.ProfileService
	weights  *service.WeightService
	chat     *service.ChatService
	system   *service.SystemSettingService
	advisor  service.FoodAnalyzer
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	systemService := service.NewSystemSettingService(db)
	advisorService := service.NewAdvisorService(systemService)
	logService := service.NewLogService(db)
	profileService := service.NewProfileService(db)

	return &API{
		db:       db,
		logs:     logService,
		profiles: profileService,
		weights:  service.NewWeightService(db),
		chat:     service.NewChatService(db, logService, profileService, advisorService),
		system:   systemService,
		advisor:  advisorService,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// SetAnalyzer 替换食物分析实现，主要面向测试场景。
func (a *API) SetAnalyzer(analyzer service.FoodAnalyzer) {
	a.advisor = analyzer
	a.chat = service.NewChatService(a.db, a.logs, a.profiles, analyzer)
}
