package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyMeasurements are the tape measurements logged with each day.
type BodyMeasurements struct {
	Chest float64 `bson:"chest" json:"chest"`
	Waist float64 `bson:"waist" json:"waist"`
	Hips  float64 `bson:"hips" json:"hips"`
}

// LoggedFoodItem is one food the user actually ate.
type LoggedFoodItem struct {
	Name          string  `bson:"name" json:"name"`
	Calories      float64 `bson:"calories" json:"calories"`
	Protein       float64 `bson:"protein" json:"protein"`
	Fat           float64 `bson:"fat" json:"fat"`
	Carbohydrates float64 `bson:"carbohydrates" json:"carbohydrates"`
	Unit          string  `bson:"unit" json:"unit"`
}

// LoggedMeal is one meal-slot the user logged. A slot submitted with an empty
// item list means "skipped" and is dropped before scoring, not stored as a
// zero-calorie meal.
type LoggedMeal struct {
	MealType      string           `bson:"mealType" json:"mealType"`
	Items         []LoggedFoodItem `bson:"items" json:"items"`
	TotalCalories float64          `bson:"totalCalories" json:"totalCalories"`
}

// LoggedExercise is one exercise the user actually performed.
type LoggedExercise struct {
	Day            string  `bson:"day" json:"day"`
	Name           string  `bson:"name" json:"name"`
	TargetMuscle   string  `bson:"targetMuscle,omitempty" json:"targetMuscle,omitempty"`
	Sets           int     `bson:"sets" json:"sets"`
	Reps           string  `bson:"reps" json:"reps"`
	RestTime       int     `bson:"restTime,omitempty" json:"restTime,omitempty"`
	CaloriesBurned float64 `bson:"caloriesBurned" json:"caloriesBurned"`
}

// DailyProgress is the single record for one (user, calendar date) pair,
// enforced by a unique index on that pair. It is created or mutated in place
// by upsert; its identity never changes and the engine never deletes it.
//
// MealPlanID/WorkoutPlanID link the day to the plan whose date range covered
// it at logging time; they can differ from "the currently active plan" if a
// plan was replaced mid-range. Adherence scores are nil when no template was
// applicable for that side.
type DailyProgress struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"userId"`
	MealPlanID    *primitive.ObjectID `bson:"mealplan_id,omitempty" json:"mealPlanId,omitempty"`
	WorkoutPlanID *primitive.ObjectID `bson:"workoutplan_id,omitempty" json:"workoutPlanId,omitempty"`
	Date          time.Time           `bson:"date" json:"date"` // midnight UTC

	Weight            float64          `bson:"weight" json:"weight"`
	BodyFatPercentage float64          `bson:"bodyFatPercentage" json:"bodyFatPercentage"`
	Measurements      BodyMeasurements `bson:"measurements" json:"measurements"`

	Meals    []LoggedMeal     `bson:"meals,omitempty" json:"meals,omitempty"`
	Workouts []LoggedExercise `bson:"workouts,omitempty" json:"workouts,omitempty"`

	TotalCaloriesTaken  float64 `bson:"totalCaloriesTaken" json:"totalCaloriesTaken"`
	TotalCaloriesBurned float64 `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`

	MealAdherenceScore    *int `bson:"mealAdherenceScore,omitempty" json:"mealAdherenceScore,omitempty"`
	WorkoutAdherenceScore *int `bson:"workoutAdherenceScore,omitempty" json:"workoutAdherenceScore,omitempty"`
	DeviatedMealPlan      bool `bson:"deviatedMealPlan" json:"deviatedMealPlan"`
	DeviatedWorkoutPlan   bool `bson:"deviatedWorkoutPlan" json:"deviatedWorkoutPlan"`

	// PhotoObjectKey points at an optional body-progress photo in object storage.
	PhotoObjectKey string `bson:"photoObjectKey,omitempty" json:"photoObjectKey,omitempty"`

	Completed bool      `bson:"completed" json:"completed"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Day returns the record's date as a calendar day.
func (p *DailyProgress) Day() Day { return NewDay(p.Date) }
