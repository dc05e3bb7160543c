package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/adherence"
	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/repository"
	"vitaplan/health-app/internal/storage"
)

const photoURLExpiry = 15 * time.Minute

// DaySubmission is one day's worth of logged data. Weight, body fat and
// measurements are pointers so a partial update can leave them untouched; a
// nil Meals or Workouts slice means that side was not submitted at all,
// while an empty non-nil slice means "submitted, nothing logged".
type DaySubmission struct {
	Day               domain.Day
	Weight            *float64
	BodyFatPercentage *float64
	Measurements      *domain.BodyMeasurements
	Meals             []domain.LoggedMeal
	Workouts          []domain.LoggedExercise
}

// PlanWindow is the identity and date range of a plan, the shape progress
// queries attach to their results.
type PlanWindow struct {
	ID        primitive.ObjectID `json:"id"`
	StartDate time.Time          `json:"startDate"`
	EndDate   time.Time          `json:"endDate"`
}

// ProgressOverview bundles all progress records for the user's active plans.
type ProgressOverview struct {
	MealPlan    *PlanWindow            `json:"mealPlan,omitempty"`
	WorkoutPlan *PlanWindow            `json:"workoutPlan,omitempty"`
	Records     []domain.DailyProgress `json:"progress"`
}

// CompletedDates lists the completed calendar days per active plan.
type CompletedDates struct {
	Meal    []string `json:"mealPlanDates"`
	Workout []string `json:"workoutPlanDates"`
}

// PlanProgressInfo is a plan window plus whether any progress was logged
// against it, used by clients to decide if a rebase is still allowed.
type PlanProgressInfo struct {
	PlanWindow
	HasProgress bool `json:"hasProgress"`
}

// PlanProgressStatus covers both active plans.
type PlanProgressStatus struct {
	MealPlan    *PlanProgressInfo `json:"mealPlan,omitempty"`
	WorkoutPlan *PlanProgressInfo `json:"workoutPlan,omitempty"`
}

// completionChecker is the slice of LifecycleService the reconciler needs
// after each write.
type completionChecker interface {
	CheckCompletion(ctx context.Context, userID primitive.ObjectID) (CompletionStatus, error)
}

// ProgressService reconciles submitted day data into the single progress
// record per (user, date): it validates the submission, scores adherence
// against the active plans' templates, links the record to the covering
// plans, and merges everything through one atomic upsert so concurrent meal
// and workout submissions for the same day cannot drop each other's fields.
type ProgressService interface {
	// RecordDay creates or partially updates the day's record. The first
	// write for a day must carry weight, body fat and measurements.
	RecordDay(ctx context.Context, userID primitive.ObjectID, sub DaySubmission) (*domain.DailyProgress, error)
	// UpdateDay is RecordDay restricted to days that already have a record.
	UpdateDay(ctx context.Context, userID primitive.ObjectID, sub DaySubmission) (*domain.DailyProgress, error)
	GetDay(ctx context.Context, userID primitive.ObjectID, day domain.Day) (*domain.DailyProgress, error)
	GetRange(ctx context.Context, userID primitive.ObjectID, start, end domain.Day) ([]domain.DailyProgress, error)
	Overview(ctx context.Context, userID primitive.ObjectID) (*ProgressOverview, error)
	CompletedDates(ctx context.Context, userID primitive.ObjectID) (*CompletedDates, error)
	PlanProgress(ctx context.Context, userID primitive.ObjectID) (*PlanProgressStatus, error)
	// UploadPhoto attaches a body-progress photo to an existing day record
	// and returns the stored object key.
	UploadPhoto(ctx context.Context, userID primitive.ObjectID, day domain.Day, reader io.Reader, size int64, contentType, filename string) (string, error)
	// PhotoURL returns a time-limited download URL for the day's photo.
	PhotoURL(ctx context.Context, userID primitive.ObjectID, day domain.Day) (string, error)
}

type progressService struct {
	progressRepo    repository.ProgressRepository
	mealPlanRepo    repository.MealPlanRepository
	workoutPlanRepo repository.WorkoutPlanRepository
	templateRepo    repository.MealTemplateRepository
	exerciseRepo    repository.ExerciseRepository
	lifecycle       completionChecker
	fileStorage     storage.FileStorage // may be nil when object storage is not configured
}

// NewProgressService creates a new daily progress service instance.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	mealPlanRepo repository.MealPlanRepository,
	workoutPlanRepo repository.WorkoutPlanRepository,
	templateRepo repository.MealTemplateRepository,
	exerciseRepo repository.ExerciseRepository,
	lifecycle completionChecker,
	fileStorage storage.FileStorage,
) ProgressService {
	return &progressService{
		progressRepo:    progressRepo,
		mealPlanRepo:    mealPlanRepo,
		workoutPlanRepo: workoutPlanRepo,
		templateRepo:    templateRepo,
		exerciseRepo:    exerciseRepo,
		lifecycle:       lifecycle,
		fileStorage:     fileStorage,
	}
}

func (s *progressService) RecordDay(ctx context.Context, userID primitive.ObjectID, sub DaySubmission) (*domain.DailyProgress, error) {
	if sub.Day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	mealPlan, workoutPlan, err := s.activePlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mealPlan == nil && workoutPlan == nil {
		return nil, ErrNoActivePlan
	}

	existing, err := s.progressRepo.GetByUserAndDay(ctx, userID, sub.Day)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch progress record: %w", err)
	}
	if existing == nil {
		// The first write for a day establishes the body metrics.
		if sub.Weight == nil || sub.BodyFatPercentage == nil || sub.Measurements == nil {
			return nil, fmt.Errorf("%w: weight, body fat percentage and measurements are required for a new day", ErrValidation)
		}
	}

	return s.reconcile(ctx, userID, sub, mealPlan, workoutPlan)
}

func (s *progressService) UpdateDay(ctx context.Context, userID primitive.ObjectID, sub DaySubmission) (*domain.DailyProgress, error) {
	if sub.Day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	if _, err := s.progressRepo.GetByUserAndDay(ctx, userID, sub.Day); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no progress recorded for %s", ErrNotFound, sub.Day)
		}
		return nil, fmt.Errorf("failed to fetch progress record: %w", err)
	}

	mealPlan, workoutPlan, err := s.activePlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mealPlan == nil && workoutPlan == nil {
		return nil, ErrNoActivePlan
	}

	return s.reconcile(ctx, userID, sub, mealPlan, workoutPlan)
}

// reconcile scores the submission, builds the partial field set and applies
// it atomically. Fields not present in the submission are never written, so
// a meals-only and a workouts-only submission for the same day compose.
func (s *progressService) reconcile(ctx context.Context, userID primitive.ObjectID, sub DaySubmission, mealPlan *domain.MealPlan, workoutPlan *domain.WorkoutPlan) (*domain.DailyProgress, error) {
	set := map[string]interface{}{"completed": true}

	if sub.Weight != nil {
		set["weight"] = *sub.Weight
	}
	if sub.BodyFatPercentage != nil {
		set["bodyFatPercentage"] = *sub.BodyFatPercentage
	}
	if sub.Measurements != nil {
		set["measurements"] = *sub.Measurements
	}

	if sub.Meals != nil {
		meals := cleanMeals(sub.Meals)
		totalTaken := 0.0
		for _, m := range meals {
			totalTaken += m.TotalCalories
		}
		set["meals"] = meals
		set["totalCaloriesTaken"] = totalTaken

		if mealPlan != nil {
			template, err := s.templateRepo.GetTemplate(ctx, mealPlan.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch meal template: %w", err)
			}
			result := adherence.MealScore(template, meals, mealPlan.TotalCalories, totalTaken)
			set["mealAdherenceScore"] = result.Score
			set["deviatedMealPlan"] = result.Deviated
			set["mealplan_id"] = planLink(mealPlan.ID, mealPlan.Covers(sub.Day))
		}
	}

	if sub.Workouts != nil {
		totalBurned := 0.0
		for _, w := range sub.Workouts {
			totalBurned += w.CaloriesBurned
		}
		set["workouts"] = sub.Workouts
		set["totalCaloriesBurned"] = totalBurned

		if workoutPlan != nil {
			exercises, err := s.exerciseRepo.GetByPlanID(ctx, workoutPlan.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch workout template: %w", err)
			}
			result := adherence.WorkoutScore(exercises, sub.Workouts, sub.Day)
			set["workoutAdherenceScore"] = result.Score
			set["deviatedWorkoutPlan"] = result.Deviated
			set["workoutplan_id"] = planLink(workoutPlan.ID, workoutPlan.Covers(sub.Day))
		}
	}

	progress, err := s.progressRepo.Upsert(ctx, userID, sub.Day, set)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Two first-writes for the same day raced on the unique index; the
		// loser retries and lands as a plain update.
		progress, err = s.progressRepo.Upsert(ctx, userID, sub.Day, set)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save progress record: %w", err)
	}

	// A completion-check failure must not fail the write that was already
	// persisted; the next submission re-runs the check anyway.
	if s.lifecycle != nil {
		if _, err := s.lifecycle.CheckCompletion(ctx, userID); err != nil {
			log.Printf("WARN: completion check failed for user %s: %v", userID.Hex(), err)
		}
	}

	return progress, nil
}

// cleanMeals drops slots with no logged items and recomputes each remaining
// slot's calorie total from its items.
func cleanMeals(meals []domain.LoggedMeal) []domain.LoggedMeal {
	cleaned := make([]domain.LoggedMeal, 0, len(meals))
	for _, m := range meals {
		if len(m.Items) == 0 {
			continue
		}
		total := 0.0
		for _, item := range m.Items {
			total += item.Calories
		}
		m.TotalCalories = total
		cleaned = append(cleaned, m)
	}
	return cleaned
}

// planLink yields the stored plan reference: the plan's id when its range
// covers the day, an explicit null otherwise.
func planLink(id primitive.ObjectID, covers bool) interface{} {
	if covers {
		return id
	}
	return nil
}

func (s *progressService) GetDay(ctx context.Context, userID primitive.ObjectID, day domain.Day) (*domain.DailyProgress, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	mealID, workoutID, err := s.activePlanIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.progressRepo.FindForDay(ctx, userID, day, mealID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no progress recorded for %s", ErrNotFound, day)
		}
		return nil, fmt.Errorf("failed to fetch progress record: %w", err)
	}
	return progress, nil
}

func (s *progressService) GetRange(ctx context.Context, userID primitive.ObjectID, start, end domain.Day) ([]domain.DailyProgress, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	mealID, workoutID, err := s.activePlanIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.progressRepo.FindInRange(ctx, userID, start, end, mealID, workoutID)
}

func (s *progressService) Overview(ctx context.Context, userID primitive.ObjectID) (*ProgressOverview, error) {
	mealPlan, workoutPlan, err := s.activePlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mealPlan == nil && workoutPlan == nil {
		return nil, ErrNoActivePlan
	}

	overview := &ProgressOverview{}
	var mealID, workoutID *primitive.ObjectID
	if mealPlan != nil {
		overview.MealPlan = &PlanWindow{ID: mealPlan.ID, StartDate: mealPlan.StartDate, EndDate: mealPlan.EndDate}
		mealID = &mealPlan.ID
	}
	if workoutPlan != nil {
		overview.WorkoutPlan = &PlanWindow{ID: workoutPlan.ID, StartDate: workoutPlan.StartDate, EndDate: workoutPlan.EndDate}
		workoutID = &workoutPlan.ID
	}

	records, err := s.progressRepo.ListByPlans(ctx, userID, mealID, workoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	overview.Records = records
	return overview, nil
}

func (s *progressService) CompletedDates(ctx context.Context, userID primitive.ObjectID) (*CompletedDates, error) {
	mealPlan, workoutPlan, err := s.activePlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mealPlan == nil && workoutPlan == nil {
		return nil, ErrNoActivePlan
	}

	dates := &CompletedDates{Meal: []string{}, Workout: []string{}}
	if mealPlan != nil {
		days, err := s.progressRepo.CompletedDays(ctx, userID, domain.PlanTypeMeal, mealPlan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list completed meal days: %w", err)
		}
		for _, d := range days {
			dates.Meal = append(dates.Meal, d.String())
		}
	}
	if workoutPlan != nil {
		days, err := s.progressRepo.CompletedDays(ctx, userID, domain.PlanTypeWorkout, workoutPlan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list completed workout days: %w", err)
		}
		for _, d := range days {
			dates.Workout = append(dates.Workout, d.String())
		}
	}
	return dates, nil
}

func (s *progressService) PlanProgress(ctx context.Context, userID primitive.ObjectID) (*PlanProgressStatus, error) {
	mealPlan, workoutPlan, err := s.activePlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mealPlan == nil && workoutPlan == nil {
		return nil, ErrNoActivePlan
	}

	status := &PlanProgressStatus{}
	if mealPlan != nil {
		exists, err := s.progressRepo.ExistsCompleted(ctx, userID, domain.PlanTypeMeal, mealPlan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check meal plan progress: %w", err)
		}
		status.MealPlan = &PlanProgressInfo{
			PlanWindow:  PlanWindow{ID: mealPlan.ID, StartDate: mealPlan.StartDate, EndDate: mealPlan.EndDate},
			HasProgress: exists,
		}
	}
	if workoutPlan != nil {
		exists, err := s.progressRepo.ExistsCompleted(ctx, userID, domain.PlanTypeWorkout, workoutPlan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check workout plan progress: %w", err)
		}
		status.WorkoutPlan = &PlanProgressInfo{
			PlanWindow:  PlanWindow{ID: workoutPlan.ID, StartDate: workoutPlan.StartDate, EndDate: workoutPlan.EndDate},
			HasProgress: exists,
		}
	}
	return status, nil
}

func (s *progressService) UploadPhoto(ctx context.Context, userID primitive.ObjectID, day domain.Day, reader io.Reader, size int64, contentType, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", ErrValidation)
	}
	if day.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := s.progressRepo.GetByUserAndDay(ctx, userID, day); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: no progress recorded for %s", ErrNotFound, day)
		}
		return "", fmt.Errorf("failed to fetch progress record: %w", err)
	}

	objectKey := fmt.Sprintf("progress-photos/%s/%s/%s%s", userID.Hex(), day, uuid.NewString(), path.Ext(filename))
	if _, err := s.fileStorage.Upload(ctx, objectKey, reader, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload progress photo: %w", err)
	}
	if err := s.progressRepo.SetPhotoKey(ctx, userID, day, objectKey); err != nil {
		return "", fmt.Errorf("failed to attach progress photo: %w", err)
	}
	return objectKey, nil
}

func (s *progressService) PhotoURL(ctx context.Context, userID primitive.ObjectID, day domain.Day) (string, error) {
	if s.fileStorage == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", ErrValidation)
	}
	progress, err := s.progressRepo.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: no progress recorded for %s", ErrNotFound, day)
		}
		return "", fmt.Errorf("failed to fetch progress record: %w", err)
	}
	if progress.PhotoObjectKey == "" {
		return "", fmt.Errorf("%w: no photo attached for %s", ErrNotFound, day)
	}
	return s.fileStorage.PresignedGetURL(ctx, progress.PhotoObjectKey, photoURLExpiry)
}

// activePlans resolves the user's active plans; a missing plan of either
// type is nil, any other store error propagates.
func (s *progressService) activePlans(ctx context.Context, userID primitive.ObjectID) (*domain.MealPlan, *domain.WorkoutPlan, error) {
	mealPlan, err := s.mealPlanRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to fetch active meal plan: %w", err)
	}
	workoutPlan, err := s.workoutPlanRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to fetch active workout plan: %w", err)
	}
	return mealPlan, workoutPlan, nil
}

func (s *progressService) activePlanIDs(ctx context.Context, userID primitive.ObjectID) (*primitive.ObjectID, *primitive.ObjectID, error) {
	mealPlan, workoutPlan, err := s.activePlans(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if mealPlan == nil && workoutPlan == nil {
		return nil, nil, ErrNoActivePlan
	}
	var mealID, workoutID *primitive.ObjectID
	if mealPlan != nil {
		mealID = &mealPlan.ID
	}
	if workoutPlan != nil {
		workoutID = &workoutPlan.ID
	}
	return mealID, workoutID, nil
}
