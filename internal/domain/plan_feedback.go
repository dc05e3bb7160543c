package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanFeedback links a user-submitted rejection reason to a specific plan.
// One is written at the moment a plan is marked not-suitable; records are
// append-only and never mutated.
type PlanFeedback struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"userId"`
	UserProfileID primitive.ObjectID  `bson:"userProfile_id" json:"userProfileId"`
	PlanType      PlanType            `bson:"planType" json:"planType"`
	MealPlanID    *primitive.ObjectID `bson:"mealPlan_id,omitempty" json:"mealPlanId,omitempty"`
	WorkoutPlanID *primitive.ObjectID `bson:"workoutPlan_id,omitempty" json:"workoutPlanId,omitempty"`
	Reason        string              `bson:"reason" json:"reason"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}
