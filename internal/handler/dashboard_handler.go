package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/service"
)

// dashboardSeriesDays 仪表盘热量趋势覆盖的天数。
const dashboardSeriesDays = 7

// GetDashboard 汇总当天摄入、目标余量、下一餐建议与最近一周热量序列。
func (a *API) GetDashboard(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = service.Today()
	}

	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	totals, err := a.logs.DailyTotals(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to sum log entries")
		return
	}

	series, err := a.logs.DailySeries(date, dashboardSeriesDays)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build calorie series")
		return
	}

	remaining := float64(profile.TargetCalories) - totals.Calories

	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"totals": totals,
		"targets": gin.H{
			"calories": profile.TargetCalories,
			"protein":  profile.TargetProtein,
			"carbs":    profile.TargetCarbs,
			"fat":      profile.TargetFat,
			"tdee":     profile.CalculatedTDEE,
		},
		"remainingCalories": remaining,
		"suggestion":        service.NextMealSuggestion(totals, profile),
		"calorieSeries":     series,
	})
}
