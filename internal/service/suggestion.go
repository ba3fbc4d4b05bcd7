package service

import "github.com/nutritrack/internal/db"

// 下一餐建议的固定文案，规则表详见 NextMealSuggestion。
const (
	suggestionStop     = "You've hit your goal! Maybe a light tea or water?"
	suggestionProtein  = "Try a high-protein snack like Greek Yogurt or Grilled Chicken."
	suggestionCarbs    = "You need some energy. How about some fruit or oatmeal?"
	suggestionFat      = "A bit of healthy fats like nuts or avocado would be good."
	suggestionBalanced = "You're balanced! A regular mixed meal fits perfectly."
)

// stopSuggestionThreshold 剩余热量低于该值时直接建议停止进食。
const stopSuggestionThreshold = 200

// NextMealSuggestion 根据今日摄入与目标给出下一餐提示。
// 规则：剩余热量不足 200 kcal 建议收尾；否则取摄入/目标比例严格最低
// 的单个营养素（蛋白优先于碳水、碳水优先于脂肪的判定顺序）；
// 没有严格最低者时返回均衡文案。
func NextMealSuggestion(totals Totals, profile db.UserProfile) string {
	remaining := float64(profile.TargetCalories) - totals.Calories
	if remaining < stopSuggestionThreshold {
		return suggestionStop
	}

	pRatio := totals.Protein / float64(profile.TargetProtein)
	cRatio := totals.Carbs / float64(profile.TargetCarbs)
	fRatio := totals.Fat / float64(profile.TargetFat)

	switch {
	case pRatio < cRatio && pRatio < fRatio:
		return suggestionProtein
	case cRatio < pRatio && cRatio < fRatio:
		return suggestionCarbs
	case fRatio < pRatio && fRatio < cRatio:
		return suggestionFat
	default:
		return suggestionBalanced
	}
}
