package service

import (
	"testing"

	"github.com/nutritrack/internal/db"
)

func baseTestProfile() db.UserProfile {
	return db.UserProfile{
		Name:          "Guest User",
		Age:           30,
		Gender:        db.GenderMale,
		Weight:        70,
		Height:        175,
		ActivityLevel: "moderate",
		Goal:          db.GoalMaintain,
	}
}

func TestCalculateTargetsMaintain(t *testing.T) {
	got := CalculateTargets(baseTestProfile())

	// BMR = 10*70 + 6.25*175 - 5*30 + 5 = 1648.75, TDEE = round(1648.75*1.55) = 2556
	if got.CalculatedTDEE != 2556 {
		t.Fatalf("unexpected TDEE: %d", got.CalculatedTDEE)
	}
	if got.TargetCalories != 2556 {
		t.Fatalf("unexpected target calories: %d", got.TargetCalories)
	}
	if got.TargetProtein != 192 {
		t.Fatalf("unexpected protein target: %d", got.TargetProtein)
	}
	if got.TargetCarbs != 256 {
		t.Fatalf("unexpected carb target: %d", got.TargetCarbs)
	}
	if got.TargetFat != 85 {
		t.Fatalf("unexpected fat target: %d", got.TargetFat)
	}
}

func TestCalculateTargetsGoalDelta(t *testing.T) {
	lose := baseTestProfile()
	lose.Goal = db.GoalLose
	got := CalculateTargets(lose)
	if got.CalculatedTDEE != 2056 {
		t.Fatalf("unexpected lose TDEE: %d", got.CalculatedTDEE)
	}
	if got.TargetProtein != 154 || got.TargetCarbs != 206 || got.TargetFat != 69 {
		t.Fatalf("unexpected lose macros: %d/%d/%d", got.TargetProtein, got.TargetCarbs, got.TargetFat)
	}

	gain := baseTestProfile()
	gain.Goal = db.GoalGain
	got = CalculateTargets(gain)
	if got.CalculatedTDEE != 3056 {
		t.Fatalf("unexpected gain TDEE: %d", got.CalculatedTDEE)
	}
}

func TestCalculateTargetsFemale(t *testing.T) {
	p := baseTestProfile()
	p.Gender = db.GenderFemale
	got := CalculateTargets(p)

	// BMR = 1648.75 - 166 = 1482.75, TDEE = round(1482.75*1.55) = 2298
	if got.CalculatedTDEE != 2298 {
		t.Fatalf("unexpected female TDEE: %d", got.CalculatedTDEE)
	}
}

func TestCalculateTargetsUnknownActivityFallsBackToSedentary(t *testing.T) {
	p := baseTestProfile()
	p.ActivityLevel = "heroic"
	got := CalculateTargets(p)

	if got.CalculatedTDEE != 1979 {
		t.Fatalf("unexpected fallback TDEE: %d", got.CalculatedTDEE)
	}
}

func TestCalculateTargetsManualOverride(t *testing.T) {
	p := baseTestProfile()
	p.UseManualTargets = true
	p.ManualCalories = 1800
	got := CalculateTargets(p)

	if got.TargetCalories != 1800 {
		t.Fatalf("unexpected manual calories: %d", got.TargetCalories)
	}
	// TDEE 仍按公式展示，不被手动值覆盖
	if got.CalculatedTDEE != 2556 {
		t.Fatalf("unexpected TDEE under manual mode: %d", got.CalculatedTDEE)
	}
	if got.TargetProtein != 135 || got.TargetCarbs != 180 || got.TargetFat != 60 {
		t.Fatalf("unexpected manual macros: %d/%d/%d", got.TargetProtein, got.TargetCarbs, got.TargetFat)
	}
}

func TestCalculateTargetsPathologicalInputs(t *testing.T) {
	p := db.UserProfile{Gender: db.GenderFemale, Goal: db.GoalLose}
	got := CalculateTargets(p)

	// 全零档案照常走公式，允许出现负目标，不做夹取
	if got.CalculatedTDEE != -693 {
		t.Fatalf("unexpected pathological TDEE: %d", got.CalculatedTDEE)
	}
}
