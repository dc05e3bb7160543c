package adherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitaplan/health-app/internal/domain"
)

func slot(mealType string, names ...string) domain.MealTemplateEntry {
	foods := make([]domain.FoodItem, len(names))
	for i, n := range names {
		foods[i] = domain.FoodItem{Name: n, Calories: 300}
	}
	return domain.MealTemplateEntry{MealType: mealType, Foods: foods}
}

func logged(mealType string, names ...string) domain.LoggedMeal {
	items := make([]domain.LoggedFoodItem, len(names))
	for i, n := range names {
		items[i] = domain.LoggedFoodItem{Name: n, Calories: 300}
	}
	return domain.LoggedMeal{MealType: mealType, Items: items}
}

func TestMealScoreNoPlannedMeals(t *testing.T) {
	res := MealScore(nil, []domain.LoggedMeal{logged("Breakfast", "oats")}, 2000, 300)
	assert.Nil(t, res.Score)
	assert.False(t, res.Deviated)
}

func TestMealScoreNothingLogged(t *testing.T) {
	planned := []domain.MealTemplateEntry{slot("Breakfast", "eggs", "oats")}
	res := MealScore(planned, nil, 2000, 0)
	require.NotNil(t, res.Score)
	assert.Equal(t, 0, *res.Score)
	assert.True(t, res.Deviated)
}

func TestMealScoreFullAdherence(t *testing.T) {
	planned := []domain.MealTemplateEntry{
		slot("Breakfast", "eggs", "oats", "toast"),
		slot("Lunch", "rice", "salad"),
	}
	actual := []domain.LoggedMeal{
		logged("Breakfast", "oats"),
		logged("Lunch", "rice"),
	}
	res := MealScore(planned, actual, 2000, 1500)
	require.NotNil(t, res.Score)
	assert.Equal(t, 100, *res.Score)
	assert.False(t, res.Deviated)
}

func TestMealScoreNameMatchingIsCaseInsensitiveAndTrimmed(t *testing.T) {
	planned := []domain.MealTemplateEntry{slot("Breakfast", "Oats")}
	actual := []domain.LoggedMeal{logged("Breakfast", "  oats  ")}
	res := MealScore(planned, actual, 2000, 300)
	require.NotNil(t, res.Score)
	assert.Equal(t, 100, *res.Score)
	assert.False(t, res.Deviated)
}

func TestMealScoreMismatchedItemSpoilsSlot(t *testing.T) {
	// One item off-plan invalidates the whole slot even if the rest match.
	planned := []domain.MealTemplateEntry{
		slot("Breakfast", "eggs", "oats"),
		slot("Lunch", "rice"),
	}
	actual := []domain.LoggedMeal{
		logged("Breakfast", "oats", "pizza"),
		logged("Lunch", "rice"),
	}
	res := MealScore(planned, actual, 2000, 1200)
	require.NotNil(t, res.Score)
	assert.Equal(t, 50, *res.Score)
	assert.True(t, res.Deviated)
}

func TestMealScoreSkippedSlotDoesNotCount(t *testing.T) {
	planned := []domain.MealTemplateEntry{
		slot("Breakfast", "oats"),
		slot("Lunch", "rice"),
		slot("Dinner", "soup"),
	}
	actual := []domain.LoggedMeal{logged("Breakfast", "oats")}
	res := MealScore(planned, actual, 2000, 300)
	require.NotNil(t, res.Score)
	assert.Equal(t, 33, *res.Score) // round(1/3 * 100)
	assert.True(t, res.Deviated)
}

func TestMealScoreCaloriePenalty(t *testing.T) {
	planned := []domain.MealTemplateEntry{slot("Breakfast", "oats")}
	actual := []domain.LoggedMeal{logged("Breakfast", "oats")}

	// 10% over target: base 100 - penalty 10 = 90.
	res := MealScore(planned, actual, 2000, 2200)
	require.NotNil(t, res.Score)
	assert.Equal(t, 90, *res.Score)
	assert.True(t, res.Deviated)
}

func TestMealScorePenaltyCappedAtBaseScore(t *testing.T) {
	// Base score 0 (nothing matched) plus a massive calorie excess must clamp
	// at 0, never negative: the penalty is capped at the base score itself.
	planned := []domain.MealTemplateEntry{slot("Breakfast", "oats")}
	actual := []domain.LoggedMeal{logged("Breakfast", "pizza")}
	res := MealScore(planned, actual, 2000, 50000)
	require.NotNil(t, res.Score)
	assert.Equal(t, 0, *res.Score)
	assert.True(t, res.Deviated)
}

func TestMealScorePenaltyClampUnderUnboundedExcess(t *testing.T) {
	planned := []domain.MealTemplateEntry{
		slot("Breakfast", "oats"),
		slot("Lunch", "rice"),
	}
	actual := []domain.LoggedMeal{
		logged("Breakfast", "oats"),
		logged("Lunch", "rice"),
	}
	res := MealScore(planned, actual, 1000, 1_000_000)
	require.NotNil(t, res.Score)
	assert.Equal(t, 0, *res.Score)
	assert.True(t, res.Deviated)
}

func TestMealScoreAtCalorieTargetNoPenalty(t *testing.T) {
	planned := []domain.MealTemplateEntry{slot("Breakfast", "oats")}
	actual := []domain.LoggedMeal{logged("Breakfast", "oats")}
	res := MealScore(planned, actual, 2000, 2000)
	require.NotNil(t, res.Score)
	assert.Equal(t, 100, *res.Score)
	assert.False(t, res.Deviated)
}
