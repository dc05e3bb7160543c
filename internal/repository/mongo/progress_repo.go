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

const progressCollectionName = "daily_progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new DailyProgress repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// planTypeField maps a plan type to its linkage field on the record.
func planTypeField(planType domain.PlanType) string {
	if planType == domain.PlanTypeWorkout {
		return "workoutplan_id"
	}
	return "mealplan_id"
}

// Upsert atomically creates or partially updates the record for (userID,
// day). Only the fields present in set are written, so a meal-only update
// and a workout-only update for the same day cannot clobber each other; the
// unique (user_id, date) index serializes concurrent inserts for the key.
func (r *mongoProgressRepository) Upsert(ctx context.Context, userID primitive.ObjectID, day domain.Day, set map[string]interface{}) (*domain.DailyProgress, error) {
	if userID == primitive.NilObjectID || day.IsZero() {
		return nil, errors.New("progress upsert requires user_id and date")
	}

	now := time.Now().UTC()
	setDoc := bson.M{"updatedAt": now}
	for k, v := range set {
		setDoc[k] = v
	}

	filter := bson.M{"user_id": userID, "date": day.Time()}
	update := bson.M{
		"$set": setDoc,
		"$setOnInsert": bson.M{
			"user_id":   userID,
			"date":      day.Time(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var progress domain.DailyProgress
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&progress); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the insert race for this key; the caller retries safely.
			return nil, repository.ErrDuplicateKey
		}
		return nil, err
	}
	return &progress, nil
}

// GetByUserAndDay retrieves the single record for (userID, day).
func (r *mongoProgressRepository) GetByUserAndDay(ctx context.Context, userID primitive.ObjectID, day domain.Day) (*domain.DailyProgress, error) {
	var progress domain.DailyProgress
	filter := bson.M{"user_id": userID, "date": day.Time()}
	err := r.collection.FindOne(ctx, filter).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// planLinkageFilter constrains a query to records tied to the given plans.
// With both ids present the record may match either side.
func planLinkageFilter(filter bson.M, mealPlanID, workoutPlanID *primitive.ObjectID) bson.M {
	switch {
	case mealPlanID != nil && workoutPlanID != nil:
		filter["$or"] = bson.A{
			bson.M{"mealplan_id": *mealPlanID},
			bson.M{"workoutplan_id": *workoutPlanID},
		}
	case mealPlanID != nil:
		filter["mealplan_id"] = *mealPlanID
	case workoutPlanID != nil:
		filter["workoutplan_id"] = *workoutPlanID
	}
	return filter
}

// FindForDay fetches the day's record constrained to the given plan linkage.
func (r *mongoProgressRepository) FindForDay(ctx context.Context, userID primitive.ObjectID, day domain.Day, mealPlanID, workoutPlanID *primitive.ObjectID) (*domain.DailyProgress, error) {
	filter := planLinkageFilter(bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": day.Time(), "$lt": day.AddDays(1).Time()},
	}, mealPlanID, workoutPlanID)

	var progress domain.DailyProgress
	err := r.collection.FindOne(ctx, filter).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// FindInRange fetches records for the inclusive [start, end] range, sorted by
// date ascending.
func (r *mongoProgressRepository) FindInRange(ctx context.Context, userID primitive.ObjectID, start, end domain.Day, mealPlanID, workoutPlanID *primitive.ObjectID) ([]domain.DailyProgress, error) {
	filter := planLinkageFilter(bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": start.Time(), "$lt": end.AddDays(1).Time()},
	}, mealPlanID, workoutPlanID)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.DailyProgress
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByPlans fetches every record tied to either plan, sorted by date.
func (r *mongoProgressRepository) ListByPlans(ctx context.Context, userID primitive.ObjectID, mealPlanID, workoutPlanID *primitive.ObjectID) ([]domain.DailyProgress, error) {
	if mealPlanID == nil && workoutPlanID == nil {
		return []domain.DailyProgress{}, nil
	}
	filter := planLinkageFilter(bson.M{"user_id": userID}, mealPlanID, workoutPlanID)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.DailyProgress
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountCompletedInRange counts completed records tied to the plan whose date
// lies in the inclusive [start, end] range.
func (r *mongoProgressRepository) CountCompletedInRange(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID, start, end domain.Day) (int64, error) {
	filter := bson.M{
		"user_id":               userID,
		planTypeField(planType): planID,
		"completed":             true,
		"date":                  bson.M{"$gte": start.Time(), "$lte": end.Time()},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// ExistsCompleted reports whether any completed record is tied to the plan.
func (r *mongoProgressRepository) ExistsCompleted(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"user_id":               userID,
		planTypeField(planType): planID,
		"completed":             true,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CompletedDays lists the distinct calendar days with completed records tied
// to the plan.
func (r *mongoProgressRepository) CompletedDays(ctx context.Context, userID primitive.ObjectID, planType domain.PlanType, planID primitive.ObjectID) ([]domain.Day, error) {
	filter := bson.M{
		"user_id":               userID,
		planTypeField(planType): planID,
		"completed":             true,
	}
	opts := options.Find().SetProjection(bson.M{"date": 1}).SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.DailyProgress
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	days := make([]domain.Day, 0, len(records))
	for _, rec := range records {
		d := domain.NewDay(rec.Date)
		if !seen[d.String()] {
			seen[d.String()] = true
			days = append(days, d)
		}
	}
	return days, nil
}

// SetPhotoKey attaches a body-progress photo object key to the day's record.
func (r *mongoProgressRepository) SetPhotoKey(ctx context.Context, userID primitive.ObjectID, day domain.Day, objectKey string) error {
	filter := bson.M{"user_id": userID, "date": day.Time()}
	update := bson.M{"$set": bson.M{"photoObjectKey": objectKey, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes. The unique (user_id, date)
// index is what makes the upsert safe under concurrency; call during startup.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "mealplan_id", Value: 1}, {Key: "completed", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "workoutplan_id", Value: 1}, {Key: "completed", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
