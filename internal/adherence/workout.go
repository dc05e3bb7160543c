package adherence

import (
	"math"
	"strings"

	"vitaplan/health-app/internal/domain"
)

// normalizedExercise is the comparable form of a planned or logged exercise.
// Matching is deliberately strict: any discrepancy in name, sets, reps string
// or calories burned after normalization is a non-match. This is not a fuzzy
// matcher.
type normalizedExercise struct {
	name           string
	sets           int
	reps           string
	caloriesBurned float64
}

func normalizeLogged(e domain.LoggedExercise) normalizedExercise {
	return normalizedExercise{
		name:           strings.ToLower(strings.TrimSpace(e.Name)),
		sets:           e.Sets,
		reps:           strings.TrimSpace(e.Reps),
		caloriesBurned: e.CaloriesBurned,
	}
}

func normalizePlanned(e domain.Exercise) normalizedExercise {
	return normalizedExercise{
		name:           strings.ToLower(strings.TrimSpace(e.Name)),
		sets:           e.Sets,
		reps:           strings.TrimSpace(e.Reps),
		caloriesBurned: e.CaloriesBurned,
	}
}

// WorkoutScore computes the workout-adherence score for one day.
//
// Only exercises tagged for the date's weekday are considered. Days with no
// planned exercises score nil without deviation; extra logged exercises
// beyond the planned set count as deviation even when every planned exercise
// matched.
func WorkoutScore(planned []domain.Exercise, actual []domain.LoggedExercise, day domain.Day) Result {
	if len(planned) == 0 {
		return Result{Score: nil, Deviated: false}
	}

	weekday := day.WeekdayName()
	var plannedForDay []normalizedExercise
	for _, e := range planned {
		if strings.EqualFold(e.Day, weekday) {
			plannedForDay = append(plannedForDay, normalizePlanned(e))
		}
	}
	if len(plannedForDay) == 0 {
		return Result{Score: nil, Deviated: false}
	}
	if len(actual) == 0 {
		return Result{Score: scoreOf(0), Deviated: true}
	}

	actuals := make([]normalizedExercise, len(actual))
	for i, a := range actual {
		actuals[i] = normalizeLogged(a)
	}

	matched := 0
	for _, p := range plannedForDay {
		for _, a := range actuals {
			if a == p {
				matched++
				break
			}
		}
	}

	score := int(math.Round(float64(matched) / float64(len(plannedForDay)) * 100))
	deviated := matched != len(plannedForDay) || len(actuals) != len(plannedForDay)

	return Result{Score: scoreOf(score), Deviated: deviated}
}
