package service

import (
	"math"

	"github.com/nutritrack/internal/db"
)

// 固定的宏量营养素分配比例（30% 蛋白 / 40% 碳水 / 30% 脂肪）
// 以及目标对应的热量调整值。产品上视为常量，不开放配置。
const (
	proteinCalorieShare = 0.3
	carbCalorieShare    = 0.4
	fatCalorieShare     = 0.3

	caloriesPerGramProtein = 4
	caloriesPerGramCarb    = 4
	caloriesPerGramFat     = 9

	goalCalorieDelta = 500
)

// activityMultipliers 按活动强度映射 TDEE 系数。
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// CalculateTargets 根据档案生物指标推导每日热量与宏量目标。
// 纯函数：输入档案，返回填充了 CalculatedTDEE 与各项 Target 的副本。
// 采用 Mifflin–St Jeor 公式，不对病态输入做夹取（age=0 等照常计算）。
func CalculateTargets(p db.UserProfile) db.UserProfile {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == db.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers["sedentary"]
	}

	tdee := int(math.Round(bmr * multiplier))

	switch p.Goal {
	case db.GoalLose:
		tdee -= goalCalorieDelta
	case db.GoalGain:
		tdee += goalCalorieDelta
	}

	p.CalculatedTDEE = tdee

	// 手动模式只覆盖总热量，TDEE 仍按公式展示
	calories := tdee
	if p.UseManualTargets {
		calories = p.ManualCalories
	}

	p.TargetCalories = calories
	p.TargetProtein = int(math.Round(float64(calories) * proteinCalorieShare / caloriesPerGramProtein))
	p.TargetCarbs = int(math.Round(float64(calories) * carbCalorieShare / caloriesPerGramCarb))
	p.TargetFat = int(math.Round(float64(calories) * fatCalorieShare / caloriesPerGramFat))

	return p
}
