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

const (
	mealCollectionName     = "meals"
	foodItemCollectionName = "food_items"
)

// mongoMealTemplateRepository implements repository.MealTemplateRepository
// over the meals and food_items collections.
type mongoMealTemplateRepository struct {
	meals *mongo.Collection
	foods *mongo.Collection
}

// NewMongoMealTemplateRepository creates a new meal template repository.
func NewMongoMealTemplateRepository(db *mongo.Database) repository.MealTemplateRepository {
	return &mongoMealTemplateRepository{
		meals: db.Collection(mealCollectionName),
		foods: db.Collection(foodItemCollectionName),
	}
}

// CreateMeal inserts one meal-slot of a plan.
func (r *mongoMealTemplateRepository) CreateMeal(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.MealPlanID == primitive.NilObjectID || meal.MealType == "" {
		return primitive.NilObjectID, errors.New("meal requires mealplan_id and mealType")
	}
	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	result, err := r.meals.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal ID")
	}
	return insertedID, nil
}

// CreateFoodItem inserts one food option of a meal-slot.
func (r *mongoMealTemplateRepository) CreateFoodItem(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error) {
	if item.MealID == primitive.NilObjectID || item.Name == "" {
		return primitive.NilObjectID, errors.New("food item requires meal_id and name")
	}
	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.foods.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted food item ID")
	}
	return insertedID, nil
}

// GetTemplate joins each meal-slot of the plan with its food options.
func (r *mongoMealTemplateRepository) GetTemplate(ctx context.Context, mealPlanID primitive.ObjectID) ([]domain.MealTemplateEntry, error) {
	var meals []domain.Meal
	cursor, err := r.meals.Find(ctx, bson.M{"mealplan_id": mealPlanID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}

	template := make([]domain.MealTemplateEntry, 0, len(meals))
	for _, meal := range meals {
		var foods []domain.FoodItem
		foodCursor, err := r.foods.Find(ctx, bson.M{"meal_id": meal.ID})
		if err != nil {
			return nil, err
		}
		if err = foodCursor.All(ctx, &foods); err != nil {
			foodCursor.Close(ctx)
			return nil, err
		}
		foodCursor.Close(ctx)
		template = append(template, domain.MealTemplateEntry{MealType: meal.MealType, Foods: foods})
	}
	return template, nil
}

// DeleteByPlan removes the plan's meal-slots and their food options. Used
// when a plan's template data is superseded.
func (r *mongoMealTemplateRepository) DeleteByPlan(ctx context.Context, mealPlanID primitive.ObjectID) error {
	var meals []domain.Meal
	cursor, err := r.meals.Find(ctx, bson.M{"mealplan_id": mealPlanID})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &meals); err != nil {
		return err
	}

	mealIDs := make([]primitive.ObjectID, len(meals))
	for i, m := range meals {
		mealIDs[i] = m.ID
	}
	if len(mealIDs) > 0 {
		if _, err := r.foods.DeleteMany(ctx, bson.M{"meal_id": bson.M{"$in": mealIDs}}); err != nil {
			return err
		}
	}
	_, err = r.meals.DeleteMany(ctx, bson.M{"mealplan_id": mealPlanID})
	return err
}

// EnsureMealTemplateIndexes creates necessary indexes. Call during startup.
func EnsureMealTemplateIndexes(ctx context.Context, meals, foods *mongo.Collection) {
	_, _ = meals.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mealplan_id", Value: 1}},
		Options: options.Index(),
	})
	_, _ = foods.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "meal_id", Value: 1}},
		Options: options.Index(),
	})
}
