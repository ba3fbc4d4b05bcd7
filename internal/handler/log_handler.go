package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/db"
	"github.com/nutritrack/internal/service"
)

type logRequest struct {
	ID       string      `json:"id"`
	Date     string      `json:"date"`
	MealType string      `json:"mealType"`
	Food     db.FoodItem `json:"food"`
}

// ListLogs 返回指定日期（默认当天）的台账记录，按餐次分组并附热量小计。
func (a *API) ListLogs(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = service.Today()
	}

	groups, err := a.logs.GroupByMeal(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list log entries")
		return
	}
	totals, err := a.logs.DailyTotals(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to sum log entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"meals":  groups,
		"totals": totals,
	})
}

// CreateLog 追加一条台账记录。
func (a *API) CreateLog(c *gin.Context) {
	var req logRequest
	if !bindJSON(c, &req, "invalid log payload") {
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		req.Date = service.Today()
	}

	entry, err := a.logs.Add(service.LogInput{
		ID:       req.ID,
		Date:     req.Date,
		MealType: req.MealType,
		Food:     req.Food,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogInvalidDate),
			errors.Is(err, service.ErrLogInvalidMealType):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to create log entry")
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// DeleteLog 删除一条台账记录；记录不存在时同样返回成功。
func (a *API) DeleteLog(c *gin.Context) {
	id := c.Param("id")
	if err := a.logs.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete log entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
