package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/ai"
	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/nutrition"
	"vitaplan/health-app/internal/repository"
)

const defaultPlanDays = 30

// GeneratedPlans is the pair of plans produced by one generation run.
type GeneratedPlans struct {
	MealPlan    *domain.MealPlan    `json:"mealPlan"`
	WorkoutPlan *domain.WorkoutPlan `json:"workoutPlan"`
}

// ActivePlans is the user's current plan pair; either side may be nil.
type ActivePlans struct {
	MealPlan    *domain.MealPlan    `json:"mealPlan,omitempty"`
	WorkoutPlan *domain.WorkoutPlan `json:"workoutPlan,omitempty"`
}

// PlannerService generates plan pairs from the active profile and answers
// plan queries. Generation supersedes: the moment a new plan of a type is
// created, every other active plan of that type moves to "account-updated",
// so at most one plan per type is ever active.
type PlannerService interface {
	GeneratePlans(ctx context.Context, userID primitive.ObjectID) (*GeneratedPlans, error)
	GetActivePlans(ctx context.Context, userID primitive.ObjectID) (*ActivePlans, error)
	GetMealPlansByStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.MealPlan, error)
	GetWorkoutPlansByStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.WorkoutPlan, error)
	GetMealTemplate(ctx context.Context, userID, mealPlanID primitive.ObjectID) ([]domain.MealTemplateEntry, error)
	GetWorkoutExercises(ctx context.Context, userID, workoutPlanID primitive.ObjectID) ([]domain.Exercise, error)
	// DeletePlansForProfile removes every plan generated from the user's
	// active profile, template data included. Progress records are kept.
	DeletePlansForProfile(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type plannerService struct {
	profileRepo     repository.ProfileRepository
	mealPlanRepo    repository.MealPlanRepository
	workoutPlanRepo repository.WorkoutPlanRepository
	templateRepo    repository.MealTemplateRepository
	exerciseRepo    repository.ExerciseRepository
	generator       ai.Generator
	notifier        completionNotifier // may be nil
}

// NewPlannerService creates a new plan generation service instance.
func NewPlannerService(
	profileRepo repository.ProfileRepository,
	mealPlanRepo repository.MealPlanRepository,
	workoutPlanRepo repository.WorkoutPlanRepository,
	templateRepo repository.MealTemplateRepository,
	exerciseRepo repository.ExerciseRepository,
	generator ai.Generator,
	notifier completionNotifier,
) PlannerService {
	return &plannerService{
		profileRepo:     profileRepo,
		mealPlanRepo:    mealPlanRepo,
		workoutPlanRepo: workoutPlanRepo,
		templateRepo:    templateRepo,
		exerciseRepo:    exerciseRepo,
		generator:       generator,
		notifier:        notifier,
	}
}

// generatedPlan mirrors the JSON structure the model is asked to emit.
type generatedPlan struct {
	MealPlan struct {
		Meals []struct {
			MealType string `json:"mealType"`
			Foods    []struct {
				Name          string  `json:"name"`
				Calories      float64 `json:"calories"`
				Protein       float64 `json:"protein"`
				Fat           float64 `json:"fat"`
				Carbohydrates float64 `json:"carbohydrates"`
				Unit          string  `json:"unit"`
			} `json:"foods"`
		} `json:"meals"`
	} `json:"mealPlan"`
	WorkoutPlan struct {
		Difficulty          string  `json:"difficulty"`
		TotalCaloriesBurned float64 `json:"totalCaloriesBurned"`
		Duration            int     `json:"duration"`
		Exercises           []struct {
			Day             string  `json:"day"`
			Name            string  `json:"name"`
			TargetMuscle    string  `json:"targetMuscle"`
			Sets            int     `json:"sets"`
			Reps            string  `json:"reps"`
			RestTime        int     `json:"restTime"`
			DurationMinutes int     `json:"durationMinutes"`
			CaloriesBurned  float64 `json:"caloriesBurned"`
		} `json:"exercises"`
	} `json:"workoutPlan"`
}

func (s *plannerService) GeneratePlans(ctx context.Context, userID primitive.ObjectID) (*GeneratedPlans, error) {
	profile, err := s.profileRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active profile; create one before generating plans", ErrNotFound)
		}
		return nil, err
	}

	// Plans shorter than a week are not generated; unset or tiny requested
	// durations fall back to the default.
	days := profile.Days
	if days < 7 {
		days = defaultPlanDays
	}
	macros := nutrition.CalculateMacros(profile)

	raw, err := s.generator.Generate(ctx, buildPlanPrompt(profile, macros, days))
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	var parsed generatedPlan
	if err := json.Unmarshal([]byte(ai.SanitizeJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse generated plan: %w", err)
	}
	if len(parsed.MealPlan.Meals) == 0 || len(parsed.WorkoutPlan.Exercises) == 0 {
		return nil, fmt.Errorf("generated plan is incomplete")
	}

	start := domain.NewDay(time.Now())
	end := start.AddDays(days - 1)

	mealPlan, err := s.persistMealPlan(ctx, userID, profile.ID, macros, parsed, start, end)
	if err != nil {
		return nil, err
	}
	workoutPlan, err := s.persistWorkoutPlan(ctx, userID, profile, parsed, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.SetDays(ctx, userID, days); err != nil {
		log.Printf("WARN: failed to store resolved plan duration for user %s: %v", userID.Hex(), err)
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, userID, "Your new meal and workout plans are ready."); err != nil {
			log.Printf("WARN: failed to send plan-created notification to user %s: %v", userID.Hex(), err)
		}
	}

	return &GeneratedPlans{MealPlan: mealPlan, WorkoutPlan: workoutPlan}, nil
}

func (s *plannerService) persistMealPlan(ctx context.Context, userID, profileID primitive.ObjectID, macros nutrition.Macros, parsed generatedPlan, start, end domain.Day) (*domain.MealPlan, error) {
	plan := &domain.MealPlan{
		UserID:        userID,
		UserProfileID: profileID,
		StartDate:     start.Time(),
		EndDate:       end.Time(),
		TotalCalories: macros.Calories,
		TotalProtein:  macros.Protein,
		TotalCarbs:    macros.Carbs,
		TotalFat:      macros.Fat,
		Status:        domain.PlanActive,
	}
	planID, err := s.mealPlanRepo.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}

	for _, slot := range parsed.MealPlan.Meals {
		meal := &domain.Meal{MealPlanID: planID, MealType: slot.MealType}
		mealID, err := s.templateRepo.CreateMeal(ctx, meal)
		if err != nil {
			return nil, fmt.Errorf("failed to create meal slot: %w", err)
		}
		for _, food := range slot.Foods {
			item := &domain.FoodItem{
				MealID:        mealID,
				Name:          food.Name,
				Calories:      food.Calories,
				Protein:       food.Protein,
				Fat:           food.Fat,
				Carbohydrates: food.Carbohydrates,
				Unit:          food.Unit,
			}
			if _, err := s.templateRepo.CreateFoodItem(ctx, item); err != nil {
				return nil, fmt.Errorf("failed to create food item: %w", err)
			}
		}
	}

	// Supersede whatever was active before this one.
	if err := s.mealPlanRepo.DemoteOtherActive(ctx, userID, planID); err != nil {
		return nil, fmt.Errorf("failed to demote previous meal plans: %w", err)
	}
	return plan, nil
}

func (s *plannerService) persistWorkoutPlan(ctx context.Context, userID primitive.ObjectID, profile *domain.UserProfile, parsed generatedPlan, start, end domain.Day) (*domain.WorkoutPlan, error) {
	difficulty := parsed.WorkoutPlan.Difficulty
	if difficulty == "" {
		difficulty = difficultyFor(profile.ActivityLevel)
	}
	plan := &domain.WorkoutPlan{
		UserID:              userID,
		UserProfileID:       profile.ID,
		FitnessGoal:         profile.FitnessGoal,
		Difficulty:          difficulty,
		TotalCaloriesBurned: parsed.WorkoutPlan.TotalCaloriesBurned,
		Duration:            parsed.WorkoutPlan.Duration,
		StartDate:           start.Time(),
		EndDate:             end.Time(),
		Status:              domain.PlanActive,
	}
	planID, err := s.workoutPlanRepo.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to create workout plan: %w", err)
	}

	for _, e := range parsed.WorkoutPlan.Exercises {
		exercise := &domain.Exercise{
			WorkoutPlanID:   planID,
			Day:             e.Day,
			Name:            e.Name,
			TargetMuscle:    e.TargetMuscle,
			Sets:            e.Sets,
			Reps:            e.Reps,
			RestTime:        e.RestTime,
			DurationMinutes: e.DurationMinutes,
			CaloriesBurned:  e.CaloriesBurned,
		}
		if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
			return nil, fmt.Errorf("failed to create exercise: %w", err)
		}
	}

	if err := s.workoutPlanRepo.DemoteOtherActive(ctx, userID, planID); err != nil {
		return nil, fmt.Errorf("failed to demote previous workout plans: %w", err)
	}
	return plan, nil
}

func difficultyFor(activityLevel string) string {
	switch activityLevel {
	case "active", "very_active":
		return "hard"
	case "moderate":
		return "medium"
	default:
		return "easy"
	}
}

func buildPlanPrompt(p *domain.UserProfile, macros nutrition.Macros, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %d-day meal plan and workout plan as a single JSON object.\n\n", days)
	fmt.Fprintf(&b, "User: %d year old %s, %.1f kg, %.1f cm, goal %s, activity level %s, workout preference %s.\n",
		p.Age, p.Gender, p.Weight, p.Height, p.FitnessGoal, p.ActivityLevel, p.WorkoutPreference)
	fmt.Fprintf(&b, "Daily targets: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat.\n", macros.Calories, macros.Protein, macros.Carbs, macros.Fat)
	if len(p.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s.\n", strings.Join(p.DietaryRestrictions, ", "))
	}
	if len(p.HealthConditions) > 0 {
		fmt.Fprintf(&b, "Health conditions: %s.\n", strings.Join(p.HealthConditions, ", "))
	}
	if len(p.CulturalDietaryPatterns) > 0 {
		fmt.Fprintf(&b, "Preferred cuisines: %s.\n", strings.Join(p.CulturalDietaryPatterns, ", "))
	}
	b.WriteString(`
Respond with ONLY valid JSON, no markdown, in this exact shape:
{
  "mealPlan": {
    "meals": [
      {"mealType": "Breakfast", "foods": [{"name": "...", "calories": 0, "protein": 0, "fat": 0, "carbohydrates": 0, "unit": "1 cup"}]}
    ]
  },
  "workoutPlan": {
    "difficulty": "easy|medium|hard",
    "totalCaloriesBurned": 0,
    "duration": 0,
    "exercises": [
      {"day": "Monday", "name": "...", "targetMuscle": "...", "sets": 3, "reps": "8-12", "restTime": 60, "durationMinutes": 10, "caloriesBurned": 0}
    ]
  }
}
Include Breakfast, Lunch, Dinner and Snack slots with 2-3 interchangeable food options each.
Tag every exercise with an English weekday name. All numbers must be plain numbers without units.`)
	return b.String()
}

func (s *plannerService) GetActivePlans(ctx context.Context, userID primitive.ObjectID) (*ActivePlans, error) {
	plans := &ActivePlans{}
	mealPlan, err := s.mealPlanRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	plans.MealPlan = mealPlan
	workoutPlan, err := s.workoutPlanRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	plans.WorkoutPlan = workoutPlan
	return plans, nil
}

func (s *plannerService) GetMealPlansByStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.MealPlan, error) {
	return s.mealPlanRepo.GetByUserAndStatus(ctx, userID, status)
}

func (s *plannerService) GetWorkoutPlansByStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.WorkoutPlan, error) {
	return s.workoutPlanRepo.GetByUserAndStatus(ctx, userID, status)
}

func (s *plannerService) GetMealTemplate(ctx context.Context, userID, mealPlanID primitive.ObjectID) ([]domain.MealTemplateEntry, error) {
	plan, err := s.mealPlanRepo.GetByID(ctx, mealPlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: meal plan %s", ErrNotFound, mealPlanID.Hex())
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: meal plan %s", ErrNotFound, mealPlanID.Hex())
	}
	return s.templateRepo.GetTemplate(ctx, mealPlanID)
}

// planStatuses is every lifecycle state a plan can be in.
var planStatuses = []domain.PlanStatus{
	domain.PlanActive,
	domain.PlanCompleted,
	domain.PlanAccountUpdated,
	domain.PlanAccountDeleted,
	domain.PlanNotSuitable,
}

func (s *plannerService) DeletePlansForProfile(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	profile, err := s.profileRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: no active profile", ErrNotFound)
		}
		return 0, err
	}

	// Cascade the owned template data first, then drop the plans.
	for _, status := range planStatuses {
		mealPlans, err := s.mealPlanRepo.GetByUserAndStatus(ctx, userID, status)
		if err != nil {
			return 0, err
		}
		for _, plan := range mealPlans {
			if plan.UserProfileID != profile.ID {
				continue
			}
			if err := s.templateRepo.DeleteByPlan(ctx, plan.ID); err != nil {
				return 0, fmt.Errorf("failed to delete meal template: %w", err)
			}
		}
		workoutPlans, err := s.workoutPlanRepo.GetByUserAndStatus(ctx, userID, status)
		if err != nil {
			return 0, err
		}
		for _, plan := range workoutPlans {
			if plan.UserProfileID != profile.ID {
				continue
			}
			if err := s.exerciseRepo.DeleteByPlan(ctx, plan.ID); err != nil {
				return 0, fmt.Errorf("failed to delete exercises: %w", err)
			}
		}
	}

	mealDeleted, err := s.mealPlanRepo.DeleteByUserAndProfile(ctx, userID, profile.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete meal plans: %w", err)
	}
	workoutDeleted, err := s.workoutPlanRepo.DeleteByUserAndProfile(ctx, userID, profile.ID)
	if err != nil {
		return mealDeleted, fmt.Errorf("failed to delete workout plans: %w", err)
	}
	return mealDeleted + workoutDeleted, nil
}

func (s *plannerService) GetWorkoutExercises(ctx context.Context, userID, workoutPlanID primitive.ObjectID) ([]domain.Exercise, error) {
	plan, err := s.workoutPlanRepo.GetByID(ctx, workoutPlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: workout plan %s", ErrNotFound, workoutPlanID.Hex())
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: workout plan %s", ErrNotFound, workoutPlanID.Hex())
	}
	return s.exerciseRepo.GetByPlanID(ctx, workoutPlanID)
}
