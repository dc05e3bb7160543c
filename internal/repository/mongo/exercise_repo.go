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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts one prescribed exercise of a workout plan.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.WorkoutPlanID == primitive.NilObjectID || exercise.Name == "" || exercise.Day == "" {
		return primitive.NilObjectID, errors.New("exercise requires workoutplan_id, name, and day")
	}
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted exercise ID")
	}
	return insertedID, nil
}

// GetByPlanID retrieves the full exercise template of a workout plan.
func (r *mongoExerciseRepository) GetByPlanID(ctx context.Context, workoutPlanID primitive.ObjectID) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	cursor, err := r.collection.Find(ctx, bson.M{"workoutplan_id": workoutPlanID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// DeleteByPlan removes every exercise of the plan.
func (r *mongoExerciseRepository) DeleteByPlan(ctx context.Context, workoutPlanID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutplan_id": workoutPlanID})
	return err
}

// EnsureExerciseIndexes creates necessary indexes. Call during startup.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "workoutplan_id", Value: 1}, {Key: "day", Value: 1}},
		Options: options.Index(),
	})
}
