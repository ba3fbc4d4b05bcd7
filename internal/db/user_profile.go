package db

import "time"

// 档案中使用的枚举值
const (
	GenderMale   = "male"
	GenderFemale = "female"

	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
)

// ActivityLevels 列出支持的活动强度档位。
var ActivityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}

// UserProfile 是单用户档案，固定使用 ID=1 的一行。
// TargetCalories 在 UseManualTargets 开启时等于 ManualCalories，
// 否则等于目标调整后的 TDEE；三大营养素目标始终由 TargetCalories
// 按固定 30/40/30 比例推导，与手动开关无关。
type UserProfile struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Gender           string    `gorm:"size:8" json:"gender"`
	Weight           float64   `json:"weight"`
	Height           float64   `json:"height"`
	ActivityLevel    string    `gorm:"size:16" json:"activityLevel"`
	Goal             string    `gorm:"size:16" json:"goal"`
	Language         string    `gorm:"size:4" json:"language"`
	CalculatedTDEE   int       `json:"calculatedTdee"`
	TargetCalories   int       `json:"targetCalories"`
	TargetProtein    int       `json:"targetProtein"`
	TargetCarbs      int       `json:"targetCarbs"`
	TargetFat        int       `json:"targetFat"`
	UseManualTargets bool      `json:"useManualTargets"`
	ManualCalories   int       `json:"manualCalories"`
	UpdatedAt        time.Time `json:"-"`
}

// TableName 自定义表名以保持命名一致。
func (UserProfile) TableName() string {
	return "user_profiles"
}
