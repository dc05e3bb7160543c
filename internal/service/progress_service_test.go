package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

type progressFixture struct {
	userID       primitive.ObjectID
	mealPlan     *domain.MealPlan
	workoutPlan  *domain.WorkoutPlan
	mealPlans    *fakeMealPlanRepo
	workoutPlans *fakeWorkoutPlanRepo
	templates    *fakeTemplateRepo
	exercises    *fakeExerciseRepo
	progress     *fakeProgressRepo
	checker      *fakeChecker
	svc          ProgressService
}

// newProgressFixture wires a user with one active meal plan and one active
// workout plan, both covering 2024-01-01 (a Monday) through 2024-01-03.
func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()

	f := &progressFixture{
		userID:       primitive.NewObjectID(),
		mealPlans:    newFakeMealPlanRepo(),
		workoutPlans: newFakeWorkoutPlanRepo(),
		templates:    newFakeTemplateRepo(),
		exercises:    newFakeExerciseRepo(),
		progress:     newFakeProgressRepo(),
		checker:      &fakeChecker{},
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	f.mealPlan = &domain.MealPlan{
		UserID:        f.userID,
		UserProfileID: primitive.NewObjectID(),
		StartDate:     start,
		EndDate:       end,
		TotalCalories: 2000,
		Status:        domain.PlanActive,
	}
	_, err := f.mealPlans.Create(context.Background(), f.mealPlan)
	require.NoError(t, err)

	f.templates.templates[f.mealPlan.ID] = []domain.MealTemplateEntry{
		{MealType: "Breakfast", Foods: []domain.FoodItem{{Name: "Oatmeal", Calories: 300}}},
		{MealType: "Lunch", Foods: []domain.FoodItem{{Name: "Grilled Chicken", Calories: 500}}},
	}

	f.workoutPlan = &domain.WorkoutPlan{
		UserID:        f.userID,
		UserProfileID: f.mealPlan.UserProfileID,
		StartDate:     start,
		EndDate:       end,
		Status:        domain.PlanActive,
	}
	_, err = f.workoutPlans.Create(context.Background(), f.workoutPlan)
	require.NoError(t, err)

	f.exercises.exercises[f.workoutPlan.ID] = []domain.Exercise{
		{WorkoutPlanID: f.workoutPlan.ID, Day: "Monday", Name: "Push Up", Sets: 3, Reps: "10", CaloriesBurned: 50},
	}

	f.svc = NewProgressService(f.progress, f.mealPlans, f.workoutPlans, f.templates, f.exercises, f.checker, nil)
	return f
}

func baseSubmission(day domain.Day) DaySubmission {
	return DaySubmission{
		Day:               day,
		Weight:            floatPtr(70),
		BodyFatPercentage: floatPtr(18),
		Measurements:      &domain.BodyMeasurements{Chest: 100, Waist: 80, Hips: 95},
	}
}

func TestRecordDayRequiresMetricsOnFirstWrite(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.RecordDay(context.Background(), f.userID, DaySubmission{
		Day:   day,
		Meals: []domain.LoggedMeal{},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordDayWithoutActivePlans(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	otherUser := primitive.NewObjectID()
	_, err := f.svc.RecordDay(context.Background(), otherUser, baseSubmission(day))
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestRecordDayScoresMealsAndLinksPlan(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	sub := baseSubmission(day)
	sub.Meals = []domain.LoggedMeal{
		{MealType: "Breakfast", Items: []domain.LoggedFoodItem{{Name: "oatmeal", Calories: 300}}},
	}

	progress, err := f.svc.RecordDay(context.Background(), f.userID, sub)
	require.NoError(t, err)

	// One of two slots adhered, no calorie excess.
	require.NotNil(t, progress.MealAdherenceScore)
	assert.Equal(t, 50, *progress.MealAdherenceScore)
	assert.True(t, progress.DeviatedMealPlan)
	require.NotNil(t, progress.MealPlanID)
	assert.Equal(t, f.mealPlan.ID, *progress.MealPlanID)
	assert.Equal(t, 300.0, progress.TotalCaloriesTaken)
	assert.True(t, progress.Completed)

	// The workout side was not submitted and must stay untouched.
	assert.Nil(t, progress.WorkoutAdherenceScore)
	assert.Nil(t, progress.WorkoutPlanID)

	assert.Equal(t, 1, f.checker.calls)
}

func TestRecordDayDropsEmptyMealSlots(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	sub := baseSubmission(day)
	sub.Meals = []domain.LoggedMeal{
		{MealType: "Breakfast", Items: []domain.LoggedFoodItem{{Name: "Oatmeal", Calories: 300}}},
		{MealType: "Lunch", Items: nil},
	}

	progress, err := f.svc.RecordDay(context.Background(), f.userID, sub)
	require.NoError(t, err)
	assert.Len(t, progress.Meals, 1)
	assert.Equal(t, "Breakfast", progress.Meals[0].MealType)
}

func TestPartialSubmissionsCompose(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	sub := baseSubmission(day)
	sub.Meals = []domain.LoggedMeal{
		{MealType: "Breakfast", Items: []domain.LoggedFoodItem{{Name: "Oatmeal", Calories: 300}}},
		{MealType: "Lunch", Items: []domain.LoggedFoodItem{{Name: "Grilled Chicken", Calories: 500}}},
	}
	_, err := f.svc.RecordDay(context.Background(), f.userID, sub)
	require.NoError(t, err)

	// A later workouts-only submission must not clobber the meal fields.
	progress, err := f.svc.UpdateDay(context.Background(), f.userID, DaySubmission{
		Day: day,
		Workouts: []domain.LoggedExercise{
			{Day: "Monday", Name: "Push Up", Sets: 3, Reps: "10", CaloriesBurned: 50},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, progress.MealAdherenceScore)
	assert.Equal(t, 100, *progress.MealAdherenceScore)
	assert.False(t, progress.DeviatedMealPlan)
	assert.Len(t, progress.Meals, 2)
	assert.Equal(t, 800.0, progress.TotalCaloriesTaken)

	require.NotNil(t, progress.WorkoutAdherenceScore)
	assert.Equal(t, 100, *progress.WorkoutAdherenceScore)
	assert.False(t, progress.DeviatedWorkoutPlan)
	require.NotNil(t, progress.WorkoutPlanID)
	assert.Equal(t, f.workoutPlan.ID, *progress.WorkoutPlanID)
	assert.Equal(t, 50.0, progress.TotalCaloriesBurned)

	assert.Equal(t, 70.0, progress.Weight)
	assert.Equal(t, 2, f.checker.calls)
}

func TestRecordDayOutsidePlanRangeIsNotLinked(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) // past the plan's end

	sub := baseSubmission(day)
	sub.Meals = []domain.LoggedMeal{
		{MealType: "Breakfast", Items: []domain.LoggedFoodItem{{Name: "Oatmeal", Calories: 300}}},
	}

	progress, err := f.svc.RecordDay(context.Background(), f.userID, sub)
	require.NoError(t, err)

	// Scored against the active template but not attributed to the plan.
	require.NotNil(t, progress.MealAdherenceScore)
	assert.Nil(t, progress.MealPlanID)
}

func TestUpdateDayRequiresExistingRecord(t *testing.T) {
	f := newProgressFixture(t)
	day := domain.NewDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.UpdateDay(context.Background(), f.userID, DaySubmission{
		Day:    day,
		Weight: floatPtr(71),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRangeValidatesWindow(t *testing.T) {
	f := newProgressFixture(t)
	start := domain.NewDay(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	end := domain.NewDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.GetRange(context.Background(), f.userID, start, end)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompletedDatesListsPerPlan(t *testing.T) {
	f := newProgressFixture(t)

	for _, d := range []int{1, 2} {
		day := domain.NewDay(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
		sub := baseSubmission(day)
		sub.Meals = []domain.LoggedMeal{
			{MealType: "Breakfast", Items: []domain.LoggedFoodItem{{Name: "Oatmeal", Calories: 300}}},
		}
		_, err := f.svc.RecordDay(context.Background(), f.userID, sub)
		require.NoError(t, err)
	}

	dates, err := f.svc.CompletedDates(context.Background(), f.userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2024-01-01", "2024-01-02"}, dates.Meal)
	assert.Empty(t, dates.Workout)
}
