package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileStatus tracks whether a profile version is the current one.
type ProfileStatus string

const (
	ProfileActive  ProfileStatus = "active"
	ProfileUpdated ProfileStatus = "updated" // superseded by a newer version
)

// UserProfile is one version of a user's biometric/goal data. Profiles are
// append-only: editing creates a new record and retires the old one, so at
// most one profile per user has status "active" at any time.
type UserProfile struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                  primitive.ObjectID `bson:"user_id" json:"userId"`
	Age                     int                `bson:"age" json:"age"`
	Gender                  string             `bson:"gender" json:"gender"`
	Weight                  float64            `bson:"weight" json:"weight"` // kg
	Height                  float64            `bson:"height" json:"height"` // cm
	FitnessGoal             string             `bson:"fitnessGoal" json:"fitnessGoal"`
	ActivityLevel           string             `bson:"activityLevel" json:"activityLevel"`
	DietaryRestrictions     []string           `bson:"dietaryRestrictions,omitempty" json:"dietaryRestrictions,omitempty"`
	HealthConditions        []string           `bson:"healthConditions,omitempty" json:"healthConditions,omitempty"`
	WorkoutPreference       string             `bson:"workoutPreference" json:"workoutPreference"`
	CulturalDietaryPatterns []string           `bson:"culturalDietaryPatterns,omitempty" json:"culturalDietaryPatterns,omitempty"`
	// Requested plan duration in days; 0 lets the plan generator decide.
	Days        int           `bson:"days" json:"days"`
	BMI         float64       `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BMICategory string        `bson:"bmiCategory,omitempty" json:"bmiCategory,omitempty"`
	Status      ProfileStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
