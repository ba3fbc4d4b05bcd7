package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nutritrack/internal/db"
	"gorm.io/gorm"
)

// ErrWeightInvalidDate 在体重采样日期不合法时返回
var ErrWeightInvalidDate = errors.New("invalid weight date")

// WeightService 负责体重时间序列的追加与读取。
type WeightService struct {
	db *gorm.DB
}

// NewWeightService 构造 WeightService
func NewWeightService(gdb *gorm.DB) *WeightService {
	return &WeightService{db: gdb}
}

// Add 追加一条体重采样；日期为空时使用当天。
func (s *WeightService) Add(date string, weight float64) (*db.WeightEntry, error) {
	trimmed := strings.TrimSpace(date)
	if trimmed == "" {
		trimmed = Today()
	}
	if _, err := time.Parse(dateFormat, trimmed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeightInvalidDate, date)
	}

	entry := db.WeightEntry{Date: trimmed, Weight: weight}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create weight entry: %w", err)
	}
	return &entry, nil
}

// History 按日期升序返回全部体重采样。
// 序列为空时返回一条以当前档案体重合成的采样，保证趋势图始终有数据。
func (s *WeightService) History(profileWeight float64) ([]db.WeightEntry, error) {
	var entries []db.WeightEntry
	if err := s.db.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list weight entries: %w", err)
	}

	if len(entries) == 0 {
		return []db.WeightEntry{{Date: Today(), Weight: profileWeight}}, nil
	}
	return entries, nil
}
