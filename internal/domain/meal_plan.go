package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealPlan is a generated nutrition plan covering an inclusive [StartDate,
// EndDate] range of UTC calendar days. At most one meal plan per user is
// expected to be active at a time; creation demotes prior active plans.
type MealPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	UserProfileID primitive.ObjectID `bson:"userProfile_id" json:"userProfileId"` // profile snapshot the plan was generated from
	StartDate     time.Time          `bson:"startDate" json:"startDate"`          // midnight UTC
	EndDate       time.Time          `bson:"endDate" json:"endDate"`              // midnight UTC, inclusive
	TotalCalories float64            `bson:"totalCalories" json:"totalCalories"`  // daily target
	TotalProtein  float64            `bson:"totalProtein" json:"totalProtein"`
	TotalCarbs    float64            `bson:"totalCarbs" json:"totalCarbs"`
	TotalFat      float64            `bson:"totalFat" json:"totalFat"`
	Status        PlanStatus         `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Covers reports whether d falls inside the plan's inclusive date range.
func (p *MealPlan) Covers(d Day) bool {
	return d.InRange(NewDay(p.StartDate), NewDay(p.EndDate))
}

// Meal is one prescribed meal-slot of a meal plan (Breakfast, Lunch, Dinner
// or Snack). Its food options live in the food_items collection.
type Meal struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MealPlanID primitive.ObjectID `bson:"mealplan_id" json:"mealPlanId"`
	MealType   string             `bson:"mealType" json:"mealType"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FoodItem is one complete meal option within a meal-slot. Options within the
// same slot are nutritionally similar; the user picks exactly one per day.
type FoodItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MealID        primitive.ObjectID `bson:"meal_id" json:"mealId"`
	Name          string             `bson:"name" json:"name"`
	Calories      float64            `bson:"calories" json:"calories"`
	Protein       float64            `bson:"protein" json:"protein"`
	Fat           float64            `bson:"fat" json:"fat"`
	Carbohydrates float64            `bson:"carbohydrates" json:"carbohydrates"`
	Unit          string             `bson:"unit" json:"unit"` // e.g. "1 cup", "2 slices"
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MealTemplateEntry is a meal-slot joined with its food options, the shape
// the adherence calculator consumes.
type MealTemplateEntry struct {
	MealType string     `json:"mealType"`
	Foods    []FoodItem `json:"foods"`
}
