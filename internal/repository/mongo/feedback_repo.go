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

const feedbackCollectionName = "plan_feedback"

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a new PlanFeedback repository.
func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{
		collection: db.Collection(feedbackCollectionName),
	}
}

// Create appends a feedback record. Records are never mutated afterwards.
func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *domain.PlanFeedback) (primitive.ObjectID, error) {
	if feedback.UserID == primitive.NilObjectID || feedback.Reason == "" {
		return primitive.NilObjectID, errors.New("feedback requires user_id and reason")
	}
	feedback.ID = primitive.NewObjectID()
	feedback.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted feedback ID")
	}
	return insertedID, nil
}

// GetByUserAndProfile lists feedback newest-first; planType "" matches both
// plan types.
func (r *mongoFeedbackRepository) GetByUserAndProfile(ctx context.Context, userID, profileID primitive.ObjectID, planType domain.PlanType) ([]domain.PlanFeedback, error) {
	filter := bson.M{"user_id": userID, "userProfile_id": profileID}
	if planType != "" {
		filter["planType"] = planType
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedbacks []domain.PlanFeedback
	if err = cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// EnsureFeedbackIndexes creates necessary indexes. Call during startup.
func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) {
	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "userProfile_id", Value: 1}, {Key: "planType", Value: 1}},
		Options: options.Index(),
	})
}
