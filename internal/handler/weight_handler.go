package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/internal/service"
)

type weightRequest struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight" binding:"required,gt=0"`
}

// ListWeights 返回按日期升序的体重序列；为空时以档案体重合成一条采样。
func (a *API) ListWeights(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	entries, err := a.weights.History(profile.Weight)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list weight entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// CreateWeight 追加一条体重采样。
func (a *API) CreateWeight(c *gin.Context) {
	var req weightRequest
	if !bindJSON(c, &req, "invalid weight payload") {
		return
	}

	entry, err := a.weights.Add(req.Date, req.Weight)
	if err != nil {
		if errors.Is(err, service.ErrWeightInvalidDate) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create weight entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}
