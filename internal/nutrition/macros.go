// Package nutrition derives daily calorie and macro targets from a profile.
package nutrition

import (
	"math"

	"vitaplan/health-app/internal/domain"
)

// Macros are the daily nutrition targets a meal plan is generated against.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fat      float64 `json:"fat"`     // grams
}

// activityMultipliers maps activity level to the TDEE multiplier.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
func BMR(gender string, weightKg, heightCm float64, age int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == "male" {
		return base + 5
	}
	return base - 161
}

// TDEE is BMR scaled by the activity multiplier. Unknown levels fall back to
// sedentary.
func TDEE(p *domain.UserProfile) float64 {
	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = activityMultipliers["sedentary"]
	}
	return BMR(p.Gender, p.Weight, p.Height, p.Age) * mult
}

func adjustCalories(tdee float64, goal string) float64 {
	switch goal {
	case "fat_loss":
		return math.Round(tdee - 500)
	case "muscle_gain":
		return math.Round(tdee + 300)
	default:
		return math.Round(tdee)
	}
}

func proteinGrams(weightKg float64, goal string) float64 {
	switch goal {
	case "muscle_gain":
		return math.Round(weightKg * 2.0)
	case "fat_loss":
		return math.Round(weightKg * 1.6)
	default:
		return math.Round(weightKg * 1.2)
	}
}

// CalculateMacros derives the full daily target set for a profile.
// Minors cutting fat are floored at 90% of TDEE.
func CalculateMacros(p *domain.UserProfile) Macros {
	tdee := TDEE(p)
	calories := adjustCalories(tdee, p.FitnessGoal)

	if p.Age < 18 && p.FitnessGoal == "fat_loss" {
		calories = math.Max(calories, math.Round(tdee*0.9))
	}

	protein := proteinGrams(p.Weight, p.FitnessGoal)
	fat := math.Round(calories * 0.25 / 9)
	carbs := math.Round((calories - protein*4 - fat*9) / 4)

	return Macros{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat}
}
