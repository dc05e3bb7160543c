package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository defines the interface for the append-only profile history.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) (primitive.ObjectID, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	// RetireActive flips every active profile of the user to "updated",
	// called before activating a replacement.
	RetireActive(ctx context.Context, userID primitive.ObjectID) error
	SetDays(ctx context.Context, userID primitive.ObjectID, days int) error
}

// MealPlanRepository defines the interface for meal plan documents.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealPlan, error)
	// GetActiveByUser returns the newest active plan for the user, or
	// ErrNotFound when none is active.
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.MealPlan, error)
	GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.MealPlan, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.PlanStatus) error
	SetDates(ctx context.Context, id primitive.ObjectID, start, end domain.Day) error
	// DemoteOtherActive moves every other active plan of the user to
	// "account-updated"; used for supersession right after a create.
	DemoteOtherActive(ctx context.Context, userID, keepID primitive.ObjectID) error
	DeleteByUserAndProfile(ctx context.Context, userID, profileID primitive.ObjectID) (int64, error)
}

// WorkoutPlanRepository defines the interface for workout plan documents.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.WorkoutPlan, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.PlanStatus) error
	SetDates(ctx context.Context, id primitive.ObjectID, start, end domain.Day) error
	DemoteOtherActive(ctx context.Context, userID, keepID primitive.ObjectID) error
	DeleteByUserAndProfile(ctx context.Context, userID, profileID primitive.ObjectID) (int64, error)
}

// MealTemplateRepository reads and writes the prescribed meal-slot/food-option
// structure owned by a meal plan.
type MealTemplateRepository interface {
	CreateMeal(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error)
	CreateFoodItem(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error)
	// GetTemplate joins meal-slots with their food options for one plan.
	GetTemplate(ctx context.Context, mealPlanID primitive.ObjectID) ([]domain.MealTemplateEntry, error)
	DeleteByPlan(ctx context.Context, mealPlanID primitive.ObjectID) error
}

// ExerciseRepository reads and writes the per-weekday exercise template owned
// by a workout plan.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByPlanID(ctx context.Context, workoutPlanID primitive.ObjectID) ([]domain.Exercise, error)
	DeleteByPlan(ctx context.Context, workoutPlanID primitive.ObjectID) error
}

// ProgressRepository defines the interface for daily progress records. The
// (user, date) pair is unique. Upsert must be atomic with respect to
// concurrent writers on the same key so that partial meal/workout updates
// cannot drop each other's fields.
type ProgressRepository interface {
	// Upsert creates or partially updates the record for (userID, day),
	// applying only the fields present in set, and returns the resulting
	// document.
	Upsert(ctx context.Context, userID primitive.ObjectID, day domain.Day, set map[string]interface{}) (*domain.DailyProgress, error)
	GetByUserAndDay(ctx context.Context, userID primitive.ObjectID, day domain.Day) (*domain.DailyProgress, error)
	// FindForDay fetches the day's record constrained to the given plan
	// linkage (either id may be nil).
	FindForDay(ctx context.Context, userID primitive.ObjectID, day domain.Day, mealPlanID, workoutPlanID *primitive.ObjectID) (*domain.DailyProgress, error)
	FindInRange(ctx context.Context, userID primitive.ObjectID, start, end domain.Day, mealPlanID, workoutPlanID *primitive.ObjectID) ([]domain.DailyProgress, error)
	ListByPlans(ctx context.Context, userID primitive.ObjectID, mealPlanID, workoutPlanID *primitive.ObjectID) ([]domain.DailyProgress, error)
	CountCompletedInRange(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID, start, end domain.Day) (int64, error)
	ExistsCompleted(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID) (bool, error)
	CompletedDays(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID) ([]domain.Day, error)
	SetPhotoKey(ctx context.Context, userID primitive.ObjectID, day domain.Day, objectKey string) error
}

// FeedbackRepository defines the interface for append-only plan feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.PlanFeedback) (primitive.ObjectID, error)
	// GetByUserAndProfile lists feedback newest-first; planType "" means both.
	GetByUserAndProfile(ctx context.Context, userID, profileID primitive.ObjectID, planType domain.PlanType) ([]domain.PlanFeedback, error)
}

// NotificationRepository defines the interface for notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}
