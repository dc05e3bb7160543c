package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vitaplan/health-app/internal/domain"
	"vitaplan/health-app/internal/repository"
)

const mealPlanCollectionName = "meal_plans"

// mongoMealPlanRepository implements repository.MealPlanRepository
type mongoMealPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoMealPlanRepository creates a new MealPlan repository.
func NewMongoMealPlanRepository(db *mongo.Database) repository.MealPlanRepository {
	return &mongoMealPlanRepository{
		collection: db.Collection(mealPlanCollectionName),
	}
}

// Create inserts a new meal plan. Status defaults to active when unset.
func (r *mongoMealPlanRepository) Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.UserProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("meal plan requires user_id and userProfile_id")
	}
	if plan.StartDate.After(plan.EndDate) {
		return primitive.NilObjectID, errors.New("meal plan start date must not follow end date")
	}
	plan.ID = primitive.NewObjectID()
	if plan.Status == "" {
		plan.Status = domain.PlanActive
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single meal plan by its ID.
func (r *mongoMealPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealPlan, error) {
	var plan domain.MealPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetActiveByUser retrieves the newest active plan for the user.
func (r *mongoMealPlanRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.MealPlan, error) {
	var plan domain.MealPlan
	filter := bson.M{"user_id": userID, "status": domain.PlanActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByUserAndStatus retrieves all plans of the user in a given status,
// newest first.
func (r *mongoMealPlanRepository) GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.PlanStatus) ([]domain.MealPlan, error) {
	var plans []domain.MealPlan
	filter := bson.M{"user_id": userID, "status": status}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SetStatus updates the plan's lifecycle status.
func (r *mongoMealPlanRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.PlanStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetDates rebases the plan's date range.
func (r *mongoMealPlanRepository) SetDates(ctx context.Context, id primitive.ObjectID, start, end domain.Day) error {
	update := bson.M{"$set": bson.M{
		"startDate": start.Time(),
		"endDate":   end.Time(),
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DemoteOtherActive moves every active plan of the user except keepID to
// account-updated. Invariant afterwards: at most one active plan per user.
func (r *mongoMealPlanRepository) DemoteOtherActive(ctx context.Context, userID, keepID primitive.ObjectID) error {
	filter := bson.M{
		"user_id": userID,
		"status":  domain.PlanActive,
		"_id":     bson.M{"$ne": keepID},
	}
	update := bson.M{"$set": bson.M{"status": domain.PlanAccountUpdated, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// DeleteByUserAndProfile removes every plan for the user/profile pair and
// returns the deleted count.
func (r *mongoMealPlanRepository) DeleteByUserAndProfile(ctx context.Context, userID, profileID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "userProfile_id": profileID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureMealPlanIndexes creates necessary indexes. Call during startup.
func EnsureMealPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main lookup: the user's active plan, newest first.
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userProfile_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
