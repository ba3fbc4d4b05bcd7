package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/service"
)

type profileRequest struct {
	Name             string  `json:"name"`
	Age              int     `json:"age"`
	Gender           string  `json:"gender"`
	Weight           float64 `json:"weight"`
	Height           float64 `json:"height"`
	ActivityLevel    string  `json:"activityLevel"`
	Goal             string  `json:"goal"`
	Language         string  `json:"language"`
	UseManualTargets bool    `json:"useManualTargets"`
	ManualCalories   int     `json:"manualCalories"`
}

// GetProfile 返回当前档案；未初始化时返回默认访客档案。
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile 保存档案并返回重新推导后的目标值。
func (a *API) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	profile, err := a.profiles.Update(service.ProfileInput{
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		Weight:           req.Weight,
		Height:           req.Height,
		ActivityLevel:    req.ActivityLevel,
		Goal:             req.Goal,
		Language:         req.Language,
		UseManualTargets: req.UseManualTargets,
		ManualCalories:   req.ManualCalories,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileInvalidGender),
			errors.Is(err, service.ErrProfileInvalidActivity),
			errors.Is(err, service.ErrProfileInvalidGoal):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save profile")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
