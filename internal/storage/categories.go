package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveCategories returns active categories ordered by sort order, then name.
func (s *Store) ActiveCategories(ctx context.Context) ([]models.Category, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	cur, err := s.categories().Find(opCtx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Category
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

// AllCategories returns every category regardless of the active flag.
func (s *Store) AllCategories(ctx context.Context) ([]models.Category, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	cur, err := s.categories().Find(opCtx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Category
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

// CategoryByID fetches one category or ErrNotFound.
func (s *Store) CategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var cat models.Category
	err := s.categories().FindOne(opCtx, bson.M{"_id": id}).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &cat, nil
}

// CategoryNameExists reports whether another category already uses the exact name.
func (s *Store) CategoryNameExists(ctx context.Context, name string, exclude primitive.ObjectID) (bool, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"name": name}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := s.categories().CountDocuments(opCtx, filter)
	if err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	return n > 0, nil
}

// CreateCategory inserts a new category and returns its id.
func (s *Store) CreateCategory(ctx context.Context, cat models.Category) (primitive.ObjectID, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.categories().InsertOne(opCtx, cat)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert category: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// UpdateCategory applies a partial field update to a category.
func (s *Store) UpdateCategory(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.categories().UpdateOne(opCtx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
