package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureAllIndexes creates the indexes for every collection. Index creation
// is idempotent; call it once during startup.
func EnsureAllIndexes(ctx context.Context, db *mongo.Database) {
	EnsureUserIndexes(ctx, db.Collection(userCollectionName))
	EnsureProfileIndexes(ctx, db.Collection(profileCollectionName))
	EnsureMealPlanIndexes(ctx, db.Collection(mealPlanCollectionName))
	EnsureWorkoutPlanIndexes(ctx, db.Collection(workoutPlanCollectionName))
	EnsureMealTemplateIndexes(ctx, db.Collection(mealCollectionName), db.Collection(foodItemCollectionName))
	EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName))
	EnsureProgressIndexes(ctx, db.Collection(progressCollectionName))
	EnsureFeedbackIndexes(ctx, db.Collection(feedbackCollectionName))
	EnsureNotificationIndexes(ctx, db.Collection(notificationCollectionName))
}
