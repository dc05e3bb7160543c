// Package adherence scores a day's logged activity against a plan's template.
// Both calculators are pure: they touch no store and derive everything from
// their arguments, so the reconciler can call them in any order.
package adherence

import (
	"math"
	"strings"

	"vitaplan/health-app/internal/domain"
)

// Result is the outcome of scoring one side (meal or workout) of a day.
// Score is nil when adherence is undefined for that day, e.g. no template
// exists or no exercises are planned for that weekday.
type Result struct {
	Score    *int
	Deviated bool
}

func scoreOf(n int) *int { return &n }

// MealScore computes the meal-adherence score for one day.
//
// A planned slot counts as adhered only if the user logged at least one item
// for it and every logged item's name matches one of the slot's food options
// (case-insensitive, trimmed). The base score is the rounded percentage of
// adhered slots. Exceeding the recommended calories subtracts a penalty of
// min(excess-fraction*100, base score); the final score never drops below 0.
func MealScore(planned []domain.MealTemplateEntry, actual []domain.LoggedMeal, recommendedCalories, totalCaloriesTaken float64) Result {
	if len(planned) == 0 {
		return Result{Score: nil, Deviated: false}
	}
	if len(actual) == 0 {
		return Result{Score: scoreOf(0), Deviated: true}
	}

	adhered := 0
	for _, slot := range planned {
		logged := findLoggedMeal(actual, slot.MealType)
		if logged == nil || len(logged.Items) == 0 {
			continue // slot skipped entirely
		}

		allowed := make(map[string]bool, len(slot.Foods))
		for _, f := range slot.Foods {
			allowed[normalizeName(f.Name)] = true
		}

		allValid := true
		for _, item := range logged.Items {
			if !allowed[normalizeName(item.Name)] {
				allValid = false
				break
			}
		}
		if allValid {
			adhered++
		}
	}

	score := int(math.Round(float64(adhered) / float64(len(planned)) * 100))

	// Calorie penalty, capped at the base score so it can never push the
	// result negative.
	if recommendedCalories > 0 && totalCaloriesTaken > recommendedCalories {
		excess := (totalCaloriesTaken - recommendedCalories) / recommendedCalories
		penalty := math.Min(excess*100, float64(score))
		score = int(math.Round(float64(score) - penalty))
		if score < 0 {
			score = 0
		}
	}

	return Result{Score: scoreOf(score), Deviated: score < 100}
}

func findLoggedMeal(meals []domain.LoggedMeal, mealType string) *domain.LoggedMeal {
	for i := range meals {
		if meals[i].MealType == mealType {
			return &meals[i]
		}
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
