package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is a generated exercise plan covering an inclusive [StartDate,
// EndDate] range. Difficulty is mapped from the profile's activity level.
type WorkoutPlan struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"user_id" json:"userId"`
	UserProfileID       primitive.ObjectID `bson:"userProfile_id" json:"userProfileId"`
	FitnessGoal         string             `bson:"fitnessGoal" json:"fitnessGoal"`
	Difficulty          string             `bson:"difficulty" json:"difficulty"` // easy | medium | hard
	TotalCaloriesBurned float64            `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`
	Duration            int                `bson:"duration" json:"duration"` // total minutes per week
	StartDate           time.Time          `bson:"startDate" json:"startDate"`
	EndDate             time.Time          `bson:"endDate" json:"endDate"`
	Status              PlanStatus         `bson:"status" json:"status"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Covers reports whether d falls inside the plan's inclusive date range.
func (p *WorkoutPlan) Covers(d Day) bool {
	return d.InRange(NewDay(p.StartDate), NewDay(p.EndDate))
}

// Exercise is one prescribed exercise of a workout plan, tagged with the
// weekday name it is scheduled for ("Monday", "Tuesday", ...).
type Exercise struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutPlanID   primitive.ObjectID `bson:"workoutplan_id" json:"workoutPlanId"`
	Day             string             `bson:"day" json:"day"`
	Name            string             `bson:"name" json:"name"`
	TargetMuscle    string             `bson:"targetMuscle,omitempty" json:"targetMuscle,omitempty"`
	Sets            int                `bson:"sets" json:"sets"`
	Reps            string             `bson:"reps" json:"reps"` // "8-12" for strength, "N/A" for cardio
	RestTime        int                `bson:"restTime" json:"restTime"` // seconds
	DurationMinutes int                `bson:"durationMinutes" json:"durationMinutes"`
	CaloriesBurned  float64            `bson:"caloriesBurned" json:"caloriesBurned"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
