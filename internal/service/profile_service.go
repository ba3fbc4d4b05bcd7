package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nutritrack/internal/db"
	"github.com/nutritrack/internal/locale"
	"gorm.io/gorm"
)

// profileRecordID 单用户档案固定占用的主键。
const profileRecordID = 1

var (
	// ErrProfileInvalidGender 在性别取值非法时返回
	ErrProfileInvalidGender = errors.New("invalid profile gender")
	// ErrProfileInvalidActivity 在活动强度不在五档内时返回
	ErrProfileInvalidActivity = errors.New("invalid activity level")
	// ErrProfileInvalidGoal 在目标取值非法时返回
	ErrProfileInvalidGoal = errors.New("invalid profile goal")
)

// ProfileService 负责单用户档案的读取与保存。
// 每次保存都会重新执行目标推导，保证目标值与生物指标同步。
type ProfileService struct {
	db      *gorm.DB
	weights *WeightService
}

// ProfileInput 定义保存档案时可配置的字段。
type ProfileInput struct {
	Name             string
	Age              int
	Gender           string
	Weight           float64
	Height           float64
	ActivityLevel    string
	Goal             string
	Language         string
	UseManualTargets bool
	ManualCalories   int
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb, weights: NewWeightService(gdb)}
}

// defaultProfile 返回未初始化时的访客档案（含默认目标值）。
func defaultProfile() db.UserProfile {
	return db.UserProfile{
		ID:               profileRecordID,
		Name:             "Guest User",
		Age:              30,
		Gender:           db.GenderMale,
		Weight:           70,
		Height:           175,
		ActivityLevel:    "moderate",
		Goal:             db.GoalMaintain,
		Language:         locale.LanguageIndonesian,
		CalculatedTDEE:   2500,
		TargetCalories:   2500,
		TargetProtein:    150,
		TargetCarbs:      300,
		TargetFat:        80,
		UseManualTargets: false,
		ManualCalories:   2500,
	}
}

// Get 读取档案；不存在时返回默认访客档案（不落库）。
func (s *ProfileService) Get() (db.UserProfile, error) {
	var profile db.UserProfile
	err := s.db.First(&profile, profileRecordID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultProfile(), nil
		}
		return db.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// Update 校验输入、重新推导目标并保存档案。
// 体重发生变化时追加一条体重采样，保持趋势图与档案一致。
func (s *ProfileService) Update(input ProfileInput) (db.UserProfile, error) {
	if err := validateProfileInput(input); err != nil {
		return db.UserProfile{}, err
	}

	existing, err := s.Get()
	if err != nil {
		return db.UserProfile{}, err
	}

	profile := db.UserProfile{
		ID:               profileRecordID,
		Name:             strings.TrimSpace(input.Name),
		Age:              input.Age,
		Gender:           strings.TrimSpace(input.Gender),
		Weight:           input.Weight,
		Height:           input.Height,
		ActivityLevel:    strings.TrimSpace(input.ActivityLevel),
		Goal:             strings.TrimSpace(input.Goal),
		Language:         locale.Fallback(input.Language),
		UseManualTargets: input.UseManualTargets,
		ManualCalories:   input.ManualCalories,
	}

	profile = CalculateTargets(profile)

	if err := s.db.Save(&profile).Error; err != nil {
		return db.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}

	if profile.Weight != existing.Weight {
		if _, err := s.weights.Add(Today(), profile.Weight); err != nil {
			return db.UserProfile{}, err
		}
	}

	return profile, nil
}

func validateProfileInput(input ProfileInput) error {
	gender := strings.TrimSpace(input.Gender)
	if gender != db.GenderMale && gender != db.GenderFemale {
		return fmt.Errorf("%w: %s", ErrProfileInvalidGender, input.Gender)
	}

	activity := strings.TrimSpace(input.ActivityLevel)
	valid := false
	for _, level := range db.ActivityLevels {
		if activity == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s", ErrProfileInvalidActivity, input.ActivityLevel)
	}

	goal := strings.TrimSpace(input.Goal)
	if goal != db.GoalLose && goal != db.GoalMaintain && goal != db.GoalGain {
		return fmt.Errorf("%w: %s", ErrProfileInvalidGoal, input.Goal)
	}

	return nil
}
