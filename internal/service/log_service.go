package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nutritrack/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrLogInvalidDate 在日期不是 YYYY-MM-DD 时返回
	ErrLogInvalidDate = errors.New("invalid log date")
	// ErrLogInvalidMealType 在餐次不在四个固定类别内时返回
	ErrLogInvalidMealType = errors.New("invalid meal type")
)

// LogService 负责营养台账（食物日志）的追加、删除与聚合。
// 台账只追加：没有编辑操作，修正通过删除后重建完成。
type LogService struct {
	db *gorm.DB
}

// Totals 汇总某一天的热量与三大营养素摄入。
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MealGroup 表示单个餐次下的记录及其热量小计。
type MealGroup struct {
	MealType string            `json:"mealType"`
	Entries  []db.FoodLogEntry `json:"entries"`
	Calories float64           `json:"calories"`
}

// LogInput 定义新增台账记录时可配置的字段。
type LogInput struct {
	ID       string
	Date     string
	MealType string
	Food     db.FoodItem
}

// NewLogService 构造 LogService
func NewLogService(gdb *gorm.DB) *LogService {
	return &LogService{db: gdb}
}

// Add 追加一条台账记录。ID 为空时由服务生成；
// 不做重复 ID 检查（调用方生成的随机标识视为唯一）。
func (s *LogService) Add(input LogInput) (*db.FoodLogEntry, error) {
	date := strings.TrimSpace(input.Date)
	if _, err := time.Parse(dateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLogInvalidDate, input.Date)
	}

	mealType := normalizeMealType(input.MealType)
	if mealType == "" {
		return nil, fmt.Errorf("%w: %s", ErrLogInvalidMealType, input.MealType)
	}

	entry := db.FoodLogEntry{
		ID:       strings.TrimSpace(input.ID),
		Date:     date,
		MealType: mealType,
		Food:     input.Food,
	}
	if entry.ID == "" {
		entry.ID = newEntryID()
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create log entry: %w", err)
	}
	return &entry, nil
}

// Delete 删除指定记录；记录不存在时静默成功（幂等）。
func (s *LogService) Delete(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&db.FoodLogEntry{}).Error; err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	return nil
}

// ListByDate 返回日期字段与给定字符串完全一致的记录，按写入顺序排列。
func (s *LogService) ListByDate(date string) ([]db.FoodLogEntry, error) {
	var entries []db.FoodLogEntry
	if err := s.db.Where("date = ?", date).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	return entries, nil
}

// DailyTotals 汇总指定日期的热量与营养素；空日期返回全零。
func (s *LogService) DailyTotals(date string) (Totals, error) {
	entries, err := s.ListByDate(date)
	if err != nil {
		return Totals{}, err
	}
	return sumEntries(entries), nil
}

// GroupByMeal 将指定日期的记录按四个餐次分组，并附带各组热量小计。
func (s *LogService) GroupByMeal(date string) ([]MealGroup, error) {
	entries, err := s.ListByDate(date)
	if err != nil {
		return nil, err
	}

	groups := make([]MealGroup, 0, len(db.MealTypes))
	for _, mealType := range db.MealTypes {
		group := MealGroup{MealType: mealType, Entries: make([]db.FoodLogEntry, 0)}
		for _, entry := range entries {
			if entry.MealType == mealType {
				group.Entries = append(group.Entries, entry)
				group.Calories += entry.Food.Calories
			}
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// DaySample 表示趋势图中单日的热量汇总。
type DaySample struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

// DailySeries 返回以 end 为终点、向前共 days 天的逐日热量序列，
// 无记录的日期补零，供热量一致性图表使用。
func (s *LogService) DailySeries(end string, days int) ([]DaySample, error) {
	endDate, err := time.Parse(dateFormat, strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLogInvalidDate, end)
	}
	if days <= 0 {
		days = 7
	}

	start := endDate.AddDate(0, 0, -(days - 1))

	var entries []db.FoodLogEntry
	if err := s.db.Where("date BETWEEN ? AND ?", start.Format(dateFormat), endDate.Format(dateFormat)).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list log range: %w", err)
	}

	byDate := make(map[string]float64, days)
	for _, entry := range entries {
		byDate[entry.Date] += entry.Food.Calories
	}

	series := make([]DaySample, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(dateFormat)
		series = append(series, DaySample{Date: date, Calories: byDate[date]})
	}
	return series, nil
}

func sumEntries(entries []db.FoodLogEntry) Totals {
	var totals Totals
	for _, entry := range entries {
		totals.Calories += entry.Food.Calories
		totals.Protein += entry.Food.Protein
		totals.Carbs += entry.Food.Carbs
		totals.Fat += entry.Food.Fat
	}
	return totals
}

func normalizeMealType(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, mealType := range db.MealTypes {
		if strings.EqualFold(trimmed, mealType) {
			return mealType
		}
	}
	return ""
}
