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

const profileCollectionName = "user_profiles"

// mongoProfileRepository implements repository.ProfileRepository
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new UserProfile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Create inserts a new profile version. Status defaults to active.
func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("profile requires user_id")
	}
	profile.ID = primitive.NewObjectID()
	if profile.Status == "" {
		profile.Status = domain.ProfileActive
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted profile ID")
	}
	return insertedID, nil
}

// GetActiveByUser retrieves the user's single active profile version.
func (r *mongoProfileRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	filter := bson.M{"user_id": userID, "status": domain.ProfileActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// RetireActive flips every active profile of the user to "updated".
func (r *mongoProfileRepository) RetireActive(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"user_id": userID, "status": domain.ProfileActive}
	update := bson.M{"$set": bson.M{"status": domain.ProfileUpdated, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// SetDays stores the resolved plan duration back on the active profile.
func (r *mongoProfileRepository) SetDays(ctx context.Context, userID primitive.ObjectID, days int) error {
	filter := bson.M{"user_id": userID, "status": domain.ProfileActive}
	update := bson.M{"$set": bson.M{"days": days, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// EnsureProfileIndexes creates necessary indexes. Call during startup.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index(),
	})
}
