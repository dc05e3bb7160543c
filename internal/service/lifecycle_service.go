package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/repository"
)

// CompletionStatus reports which active plans were closed out by a
// completion check.
type CompletionStatus struct {
	MealCompleted    bool `json:"mealPlanCompleted"`
	WorkoutCompleted bool `json:"workoutPlanCompleted"`
}

// RebaseRequest names the new start dates; a nil field leaves that plan type
// untouched.
type RebaseRequest struct {
	MealStart    *domain.Day
	WorkoutStart *domain.Day
}

// RebasedPlans returns the plans as they stand after a rebase.
type RebasedPlans struct {
	MealPlan    *domain.MealPlan    `json:"mealPlan,omitempty"`
	WorkoutPlan *domain.WorkoutPlan `json:"workoutPlan,omitempty"`
}

// completionNotifier is the slice of NotificationService the lifecycle
// manager needs. Nil disables notifications.
type completionNotifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, message string) error
}

// LifecycleService drives plan status transitions: completion detection,
// user rejection with feedback, and start-date rebasing. It owns every write
// that moves a plan out of "active" except supersession, which the planner
// performs at creation time.
type LifecycleService interface {
	// CheckCompletion flips each active plan to "completed" when every day
	// of its range has a completed progress record linked to it.
	CheckCompletion(ctx context.Context, userID primitive.ObjectID) (CompletionStatus, error)
	// MarkNotSuitable rejects an active plan and records the user's reason.
	MarkNotSuitable(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID, reason string) (*domain.PlanFeedback, error)
	// RebaseStartDates shifts the requested plans to new start dates,
	// preserving each plan's duration. Refused wholesale if any requested
	// plan already has completed progress.
	RebaseStartDates(ctx context.Context, userID primitive.ObjectID, req RebaseRequest) (*RebasedPlans, error)
	ListFeedback(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType) ([]domain.PlanFeedback, error)
}

type lifecycleService struct {
	mealPlanRepo    repository.MealPlanRepository
	workoutPlanRepo repository.WorkoutPlanRepository
	progressRepo    repository.ProgressRepository
	feedbackRepo    repository.FeedbackRepository
	profileRepo     repository.ProfileRepository
	notifier        completionNotifier
}

// NewLifecycleService creates a new plan lifecycle service instance.
func NewLifecycleService(
	mealPlanRepo repository.MealPlanRepository,
	workoutPlanRepo repository.WorkoutPlanRepository,
	progressRepo repository.ProgressRepository,
	feedbackRepo repository.FeedbackRepository,
	profileRepo repository.ProfileRepository,
	notifier completionNotifier,
) LifecycleService {
	return &lifecycleService{
		mealPlanRepo:    mealPlanRepo,
		workoutPlanRepo: workoutPlanRepo,
		progressRepo:    progressRepo,
		feedbackRepo:    feedbackRepo,
		profileRepo:     profileRepo,
		notifier:        notifier,
	}
}

func (s *lifecycleService) CheckCompletion(ctx context.Context, userID primitive.ObjectID) (CompletionStatus, error) {
	var status CompletionStatus

	mealPlan, err := s.mealPlanRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return status, fmt.Errorf("failed to fetch active meal plan: %w", err)
	}
	if mealPlan != nil {
		done, err := s.rangeComplete(ctx, userID, domain.PlanTypeMeal, mealPlan.ID,
			domain.NewDay(mealPlan.StartDate), domain.NewDay(mealPlan.EndDate))
		if err != nil {
			return status, err
		}
		if done {
			if err := s.mealPlanRepo.SetStatus(ctx, mealPlan.ID, domain.PlanCompleted); err != nil {
				return status, fmt.Errorf("failed to complete meal plan: %w", err)
			}
			status.MealCompleted = true
			s.notifyCompletion(ctx, userID, "Congratulations! You have completed your meal plan.")
		}
	}

	workoutPlan, err := s.workoutPlanRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return status, fmt.Errorf("failed to fetch active workout plan: %w", err)
	}
	if workoutPlan != nil {
		done, err := s.rangeComplete(ctx, userID, domain.PlanTypeWorkout, workoutPlan.ID,
			domain.NewDay(workoutPlan.StartDate), domain.NewDay(workoutPlan.EndDate))
		if err != nil {
			return status, err
		}
		if done {
			if err := s.workoutPlanRepo.SetStatus(ctx, workoutPlan.ID, domain.PlanCompleted); err != nil {
				return status, fmt.Errorf("failed to complete workout plan: %w", err)
			}
			status.WorkoutCompleted = true
			s.notifyCompletion(ctx, userID, "Congratulations! You have completed your workout plan.")
		}
	}

	return status, nil
}

// rangeComplete reports whether every day of the inclusive plan range has a
// completed progress record linked to the plan.
func (s *lifecycleService) rangeComplete(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID, start, end domain.Day) (bool, error) {
	total := domain.DayCount(start, end)
	if total <= 0 {
		return false, nil
	}
	count, err := s.progressRepo.CountCompletedInRange(ctx, userID, planType, planID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to count completed days: %w", err)
	}
	return count >= int64(total), nil
}

func (s *lifecycleService) notifyCompletion(ctx context.Context, userID primitive.ObjectID, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, message); err != nil {
		log.Printf("WARN: failed to send completion notification to user %s: %v", userID.Hex(), err)
	}
}

func (s *lifecycleService) MarkNotSuitable(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID, reason string) (*domain.PlanFeedback, error) {
	if !planType.Valid() {
		return nil, fmt.Errorf("%w: unknown plan type %q", ErrValidation, planType)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required", ErrValidation)
	}

	feedback := &domain.PlanFeedback{
		UserID:   userID,
		PlanType: planType,
		Reason:   reason,
	}

	switch planType {
	case domain.PlanTypeMeal:
		plan, err := s.mealPlanRepo.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: meal plan %s", ErrNotFound, planID.Hex())
			}
			return nil, err
		}
		if plan.UserID != userID {
			return nil, fmt.Errorf("%w: meal plan %s", ErrNotFound, planID.Hex())
		}
		if plan.Status.Terminal() {
			return nil, fmt.Errorf("%w: plan is already %s", ErrConflict, plan.Status)
		}
		if err := s.mealPlanRepo.SetStatus(ctx, plan.ID, domain.PlanNotSuitable); err != nil {
			return nil, fmt.Errorf("failed to mark meal plan not suitable: %w", err)
		}
		feedback.UserProfileID = plan.UserProfileID
		feedback.MealPlanID = &plan.ID

	case domain.PlanTypeWorkout:
		plan, err := s.workoutPlanRepo.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: workout plan %s", ErrNotFound, planID.Hex())
			}
			return nil, err
		}
		if plan.UserID != userID {
			return nil, fmt.Errorf("%w: workout plan %s", ErrNotFound, planID.Hex())
		}
		if plan.Status.Terminal() {
			return nil, fmt.Errorf("%w: plan is already %s", ErrConflict, plan.Status)
		}
		if err := s.workoutPlanRepo.SetStatus(ctx, plan.ID, domain.PlanNotSuitable); err != nil {
			return nil, fmt.Errorf("failed to mark workout plan not suitable: %w", err)
		}
		feedback.UserProfileID = plan.UserProfileID
		feedback.WorkoutPlanID = &plan.ID
	}

	if _, err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to record plan feedback: %w", err)
	}
	return feedback, nil
}

func (s *lifecycleService) RebaseStartDates(ctx context.Context, userID primitive.ObjectID, req RebaseRequest) (*RebasedPlans, error) {
	if req.MealStart == nil && req.WorkoutStart == nil {
		return nil, fmt.Errorf("%w: at least one start date is required", ErrValidation)
	}

	// Resolve every requested plan and check for progress before touching
	// anything, so a refusal leaves both plans untouched.
	var mealPlan *domain.MealPlan
	if req.MealStart != nil {
		plan, err := s.mealPlanRepo.GetActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: no active meal plan", ErrNotFound)
			}
			return nil, err
		}
		exists, err := s.progressRepo.ExistsCompleted(ctx, userID, domain.PlanTypeMeal, plan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check meal plan progress: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: meal plan already has logged progress", ErrConflict)
		}
		mealPlan = plan
	}

	var workoutPlan *domain.WorkoutPlan
	if req.WorkoutStart != nil {
		plan, err := s.workoutPlanRepo.GetActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: no active workout plan", ErrNotFound)
			}
			return nil, err
		}
		exists, err := s.progressRepo.ExistsCompleted(ctx, userID, domain.PlanTypeWorkout, plan.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check workout plan progress: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: workout plan already has logged progress", ErrConflict)
		}
		workoutPlan = plan
	}

	result := &RebasedPlans{}

	if mealPlan != nil {
		start, end := rebasedRange(*req.MealStart, domain.NewDay(mealPlan.StartDate), domain.NewDay(mealPlan.EndDate))
		if err := s.mealPlanRepo.SetDates(ctx, mealPlan.ID, start, end); err != nil {
			return nil, fmt.Errorf("failed to rebase meal plan: %w", err)
		}
		updated, err := s.mealPlanRepo.GetByID(ctx, mealPlan.ID)
		if err != nil {
			return nil, err
		}
		result.MealPlan = updated
	}

	if workoutPlan != nil {
		start, end := rebasedRange(*req.WorkoutStart, domain.NewDay(workoutPlan.StartDate), domain.NewDay(workoutPlan.EndDate))
		if err := s.workoutPlanRepo.SetDates(ctx, workoutPlan.ID, start, end); err != nil {
			return nil, fmt.Errorf("failed to rebase workout plan: %w", err)
		}
		updated, err := s.workoutPlanRepo.GetByID(ctx, workoutPlan.ID)
		if err != nil {
			return nil, err
		}
		result.WorkoutPlan = updated
	}

	return result, nil
}

// rebasedRange shifts a plan window to newStart keeping its duration. A
// degenerate stored range falls back to 30 days.
func rebasedRange(newStart, oldStart, oldEnd domain.Day) (domain.Day, domain.Day) {
	days := domain.DayCount(oldStart, oldEnd)
	if days <= 0 {
		days = 30
	}
	return newStart, newStart.AddDays(days - 1)
}

func (s *lifecycleService) ListFeedback(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType) ([]domain.PlanFeedback, error) {
	if planType != "" && !planType.Valid() {
		return nil, fmt.Errorf("%w: unknown plan type %q", ErrValidation, planType)
	}
	profile, err := s.profileRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active profile", ErrNotFound)
		}
		return nil, err
	}
	return s.feedbackRepo.GetByUserAndProfile(ctx, userID, profile.ID, planType)
}
