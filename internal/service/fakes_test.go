package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/repository"
)

// In-memory repository fakes. The progress fake mirrors the store's partial
// $set merge so the reconciler's compose-don't-clobber behavior is testable
// without Mongo.

type fakeMealPlanRepo struct {
	plans map[primitive.ObjectID]*domain.MealPlan
}

func newFakeMealPlanRepo() *fakeMealPlanRepo {
	return &fakeMealPlanRepo{plans: make(map[primitive.ObjectID]*domain.MealPlan)}
}

func (f *fakeMealPlanRepo) Create(_ context.Context, plan *domain.MealPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	f.plans[plan.ID] = plan
	return plan.ID, nil
}

func (f *fakeMealPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MealPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

func (f *fakeMealPlanRepo) GetActiveByUser(_ context.Context, userID primitive.ObjectID) (*domain.MealPlan, error) {
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.Status == domain.PlanActive {
			cp := *plan
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMealPlanRepo) GetByUserAndStatus(_ context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.MealPlan, error) {
	var out []domain.MealPlan
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.Status == status {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (f *fakeMealPlanRepo) SetStatus(_ context.Context, id primitive.ObjectID, status domain.PlanStatus) error {
	plan, ok := f.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.Status = status
	return nil
}

func (f *fakeMealPlanRepo) SetDates(_ context.Context, id primitive.ObjectID, start, end domain.Day) error {
	plan, ok := f.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.StartDate = start.Time()
	plan.EndDate = end.Time()
	return nil
}

func (f *fakeMealPlanRepo) DemoteOtherActive(_ context.Context, userID, keepID primitive.ObjectID) error {
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.ID != keepID && plan.Status == domain.PlanActive {
			plan.Status = domain.PlanAccountUpdated
		}
	}
	return nil
}

func (f *fakeMealPlanRepo) DeleteByUserAndProfile(_ context.Context, userID, profileID primitive.ObjectID) (int64, error) {
	var n int64
	for id, plan := range f.plans {
		if plan.UserID == userID && plan.UserProfileID == profileID {
			delete(f.plans, id)
			n++
		}
	}
	return n, nil
}

type fakeWorkoutPlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newFakeWorkoutPlanRepo() *fakeWorkoutPlanRepo {
	return &fakeWorkoutPlanRepo{plans: make(map[primitive.ObjectID]*domain.WorkoutPlan)}
}

func (f *fakeWorkoutPlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	f.plans[plan.ID] = plan
	return plan.ID, nil
}

func (f *fakeWorkoutPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

func (f *fakeWorkoutPlanRepo) GetActiveByUser(_ context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.Status == domain.PlanActive {
			cp := *plan
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeWorkoutPlanRepo) GetByUserAndStatus(_ context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.Status == status {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (f *fakeWorkoutPlanRepo) SetStatus(_ context.Context, id primitive.ObjectID, status domain.PlanStatus) error {
	plan, ok := f.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.Status = status
	return nil
}

func (f *fakeWorkoutPlanRepo) SetDates(_ context.Context, id primitive.ObjectID, start, end domain.Day) error {
	plan, ok := f.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.StartDate = start.Time()
	plan.EndDate = end.Time()
	return nil
}

func (f *fakeWorkoutPlanRepo) DemoteOtherActive(_ context.Context, userID, keepID primitive.ObjectID) error {
	for _, plan := range f.plans {
		if plan.UserID == userID && plan.ID != keepID && plan.Status == domain.PlanActive {
			plan.Status = domain.PlanAccountUpdated
		}
	}
	return nil
}

func (f *fakeWorkoutPlanRepo) DeleteByUserAndProfile(_ context.Context, userID, profileID primitive.ObjectID) (int64, error) {
	var n int64
	for id, plan := range f.plans {
		if plan.UserID == userID && plan.UserProfileID == profileID {
			delete(f.plans, id)
			n++
		}
	}
	return n, nil
}

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID][]domain.MealTemplateEntry
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[primitive.ObjectID][]domain.MealTemplateEntry)}
}

func (f *fakeTemplateRepo) CreateMeal(_ context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	meal.ID = primitive.NewObjectID()
	return meal.ID, nil
}

func (f *fakeTemplateRepo) CreateFoodItem(_ context.Context, item *domain.FoodItem) (primitive.ObjectID, error) {
	item.ID = primitive.NewObjectID()
	return item.ID, nil
}

func (f *fakeTemplateRepo) GetTemplate(_ context.Context, mealPlanID primitive.ObjectID) ([]domain.MealTemplateEntry, error) {
	return f.templates[mealPlanID], nil
}

func (f *fakeTemplateRepo) DeleteByPlan(_ context.Context, mealPlanID primitive.ObjectID) error {
	delete(f.templates, mealPlanID)
	return nil
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID][]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID][]domain.Exercise)}
}

func (f *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	f.exercises[exercise.WorkoutPlanID] = append(f.exercises[exercise.WorkoutPlanID], *exercise)
	return exercise.ID, nil
}

func (f *fakeExerciseRepo) GetByPlanID(_ context.Context, workoutPlanID primitive.ObjectID) ([]domain.Exercise, error) {
	return f.exercises[workoutPlanID], nil
}

func (f *fakeExerciseRepo) DeleteByPlan(_ context.Context, workoutPlanID primitive.ObjectID) error {
	delete(f.exercises, workoutPlanID)
	return nil
}

type fakeProgressRepo struct {
	records map[string]*domain.DailyProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*domain.DailyProgress)}
}

func progressKey(userID primitive.ObjectID, day domain.Day) string {
	return userID.Hex() + "/" + day.String()
}

func (f *fakeProgressRepo) Upsert(_ context.Context, userID primitive.ObjectID, day domain.Day, set map[string]interface{}) (*domain.DailyProgress, error) {
	key := progressKey(userID, day)
	rec, ok := f.records[key]
	if !ok {
		rec = &domain.DailyProgress{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Date:      day.Time(),
			CreatedAt: time.Now().UTC(),
		}
		f.records[key] = rec
	}
	for k, v := range set {
		switch k {
		case "completed":
			rec.Completed = v.(bool)
		case "weight":
			rec.Weight = v.(float64)
		case "bodyFatPercentage":
			rec.BodyFatPercentage = v.(float64)
		case "measurements":
			rec.Measurements = v.(domain.BodyMeasurements)
		case "meals":
			rec.Meals = v.([]domain.LoggedMeal)
		case "totalCaloriesTaken":
			rec.TotalCaloriesTaken = v.(float64)
		case "mealAdherenceScore":
			rec.MealAdherenceScore, _ = v.(*int)
		case "deviatedMealPlan":
			rec.DeviatedMealPlan = v.(bool)
		case "mealplan_id":
			if id, ok := v.(primitive.ObjectID); ok {
				rec.MealPlanID = &id
			} else {
				rec.MealPlanID = nil
			}
		case "workouts":
			rec.Workouts = v.([]domain.LoggedExercise)
		case "totalCaloriesBurned":
			rec.TotalCaloriesBurned = v.(float64)
		case "workoutAdherenceScore":
			rec.WorkoutAdherenceScore, _ = v.(*int)
		case "deviatedWorkoutPlan":
			rec.DeviatedWorkoutPlan = v.(bool)
		case "workoutplan_id":
			if id, ok := v.(primitive.ObjectID); ok {
				rec.WorkoutPlanID = &id
			} else {
				rec.WorkoutPlanID = nil
			}
		case "photoObjectKey":
			rec.PhotoObjectKey = v.(string)
		}
	}
	rec.UpdatedAt = time.Now().UTC()
	cp := *rec
	return &cp, nil
}

func (f *fakeProgressRepo) GetByUserAndDay(_ context.Context, userID primitive.ObjectID, day domain.Day) (*domain.DailyProgress, error) {
	rec, ok := f.records[progressKey(userID, day)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeProgressRepo) FindForDay(_ context.Context, userID primitive.ObjectID, day domain.Day, mealPlanID, workoutPlanID *primitive.ObjectID) (*domain.DailyProgress, error) {
	rec, ok := f.records[progressKey(userID, day)]
	if !ok || !linkedToEither(rec, mealPlanID, workoutPlanID) {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeProgressRepo) FindInRange(_ context.Context, userID primitive.ObjectID, start, end domain.Day, mealPlanID, workoutPlanID *primitive.ObjectID) ([]domain.DailyProgress, error) {
	var out []domain.DailyProgress
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Day().InRange(start, end) && linkedToEither(rec, mealPlanID, workoutPlanID) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) ListByPlans(_ context.Context, userID primitive.ObjectID, mealPlanID, workoutPlanID *primitive.ObjectID) ([]domain.DailyProgress, error) {
	var out []domain.DailyProgress
	for _, rec := range f.records {
		if rec.UserID == userID && linkedToEither(rec, mealPlanID, workoutPlanID) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func linkedToEither(rec *domain.DailyProgress, mealPlanID, workoutPlanID *primitive.ObjectID) bool {
	if mealPlanID != nil && rec.MealPlanID != nil && *rec.MealPlanID == *mealPlanID {
		return true
	}
	if workoutPlanID != nil && rec.WorkoutPlanID != nil && *rec.WorkoutPlanID == *workoutPlanID {
		return true
	}
	return false
}

func (f *fakeProgressRepo) linkedToPlan(rec *domain.DailyProgress, planType domain.PlanType, planID primitive.ObjectID) bool {
	switch planType {
	case domain.PlanTypeMeal:
		return rec.MealPlanID != nil && *rec.MealPlanID == planID
	case domain.PlanTypeWorkout:
		return rec.WorkoutPlanID != nil && *rec.WorkoutPlanID == planID
	}
	return false
}

func (f *fakeProgressRepo) CountCompletedInRange(_ context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID, start, end domain.Day) (int64, error) {
	var n int64
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Completed && rec.Day().InRange(start, end) && f.linkedToPlan(rec, planType, planID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgressRepo) ExistsCompleted(_ context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID) (bool, error) {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Completed && f.linkedToPlan(rec, planType, planID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProgressRepo) CompletedDays(_ context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID) ([]domain.Day, error) {
	var out []domain.Day
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Completed && f.linkedToPlan(rec, planType, planID) {
			out = append(out, rec.Day())
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) SetPhotoKey(_ context.Context, userID primitive.ObjectID, day domain.Day, objectKey string) error {
	rec, ok := f.records[progressKey(userID, day)]
	if !ok {
		return repository.ErrNotFound
	}
	rec.PhotoObjectKey = objectKey
	return nil
}

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*domain.UserProfile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *domain.UserProfile) (primitive.ObjectID, error) {
	profile.ID = primitive.NewObjectID()
	if profile.Status == "" {
		profile.Status = domain.ProfileActive
	}
	f.profiles[profile.ID] = profile
	return profile.ID, nil
}

func (f *fakeProfileRepo) GetActiveByUser(_ context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID && p.Status == domain.ProfileActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) RetireActive(_ context.Context, userID primitive.ObjectID) error {
	for _, p := range f.profiles {
		if p.UserID == userID && p.Status == domain.ProfileActive {
			p.Status = domain.ProfileUpdated
		}
	}
	return nil
}

func (f *fakeProfileRepo) SetDays(_ context.Context, userID primitive.ObjectID, days int) error {
	for _, p := range f.profiles {
		if p.UserID == userID && p.Status == domain.ProfileActive {
			p.Days = days
		}
	}
	return nil
}

type fakeFeedbackRepo struct {
	records []domain.PlanFeedback
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.PlanFeedback) (primitive.ObjectID, error) {
	feedback.ID = primitive.NewObjectID()
	feedback.CreatedAt = time.Now().UTC()
	f.records = append(f.records, *feedback)
	return feedback.ID, nil
}

func (f *fakeFeedbackRepo) GetByUserAndProfile(_ context.Context, userID, profileID primitive.ObjectID, planType domain.PlanType) ([]domain.PlanFeedback, error) {
	var out []domain.PlanFeedback
	for _, r := range f.records {
		if r.UserID == userID && r.UserProfileID == profileID && (planType == "" || r.PlanType == planType) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, _ primitive.ObjectID, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fakeChecker struct {
	calls int
}

func (f *fakeChecker) CheckCompletion(_ context.Context, _ primitive.ObjectID) (CompletionStatus, error) {
	f.calls++
	return CompletionStatus{}, nil
}
