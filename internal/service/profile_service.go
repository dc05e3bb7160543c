package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/nutrition"
	"vitaplan/health-app/internal/repository"
)

// ProfileInput carries the user-editable profile fields.
type ProfileInput struct {
	Age                     int      `json:"age"`
	Gender                  string   `json:"gender"`
	Weight                  float64  `json:"weight"`
	Height                  float64  `json:"height"`
	FitnessGoal             string   `json:"fitnessGoal"`
	ActivityLevel           string   `json:"activityLevel"`
	DietaryRestrictions     []string `json:"dietaryRestrictions"`
	HealthConditions        []string `json:"healthConditions"`
	WorkoutPreference       string   `json:"workoutPreference"`
	CulturalDietaryPatterns []string `json:"culturalDietaryPatterns"`
	Days                    int      `json:"days"`
}

// ProfileService manages the append-only profile history: saving a profile
// retires the previous active version and activates the new one.
type ProfileService interface {
	SaveProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (*domain.UserProfile, error)
	GetActiveProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new profile service instance.
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) SaveProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (*domain.UserProfile, error) {
	if input.Age <= 0 || input.Weight <= 0 || input.Height <= 0 {
		return nil, fmt.Errorf("%w: age, weight and height must be positive", ErrValidation)
	}
	if input.Gender == "" || input.FitnessGoal == "" || input.ActivityLevel == "" {
		return nil, fmt.Errorf("%w: gender, fitness goal and activity level are required", ErrValidation)
	}
	if input.Days < 0 {
		return nil, fmt.Errorf("%w: days cannot be negative", ErrValidation)
	}

	bmi := nutrition.BMI(input.Weight, input.Height)
	profile := &domain.UserProfile{
		UserID:                  userID,
		Age:                     input.Age,
		Gender:                  input.Gender,
		Weight:                  input.Weight,
		Height:                  input.Height,
		FitnessGoal:             input.FitnessGoal,
		ActivityLevel:           input.ActivityLevel,
		DietaryRestrictions:     input.DietaryRestrictions,
		HealthConditions:        input.HealthConditions,
		WorkoutPreference:       input.WorkoutPreference,
		CulturalDietaryPatterns: input.CulturalDietaryPatterns,
		Days:                    input.Days,
		BMI:                     bmi,
		BMICategory:             nutrition.BMICategory(bmi),
		Status:                  domain.ProfileActive,
	}

	// Retire first so at most one version is active at any time.
	if err := s.profileRepo.RetireActive(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to retire previous profile: %w", err)
	}
	if _, err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) GetActiveProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active profile", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}
