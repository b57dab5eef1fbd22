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

// ActiveOperators returns active operators sorted by name.
func (s *Store) ActiveOperators(ctx context.Context) ([]models.Operator, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.operators().Find(opCtx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find operators: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Operator
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode operators: %w", err)
	}
	return out, nil
}

// AllOperators returns every operator regardless of the active flag.
func (s *Store) AllOperators(ctx context.Context) ([]models.Operator, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.operators().Find(opCtx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find operators: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Operator
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode operators: %w", err)
	}
	return out, nil
}

// OperatorByID fetches one operator or ErrNotFound.
func (s *Store) OperatorByID(ctx context.Context, id primitive.ObjectID) (*models.Operator, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var op models.Operator
	err := s.operators().FindOne(opCtx, bson.M{"_id": id}).Decode(&op)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return &op, nil
}

// HandleExists reports whether another operator already uses the handle.
// The match is case-sensitive and exact; exclude skips the record being edited.
func (s *Store) HandleExists(ctx context.Context, handle string, exclude primitive.ObjectID) (bool, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"handle": handle}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := s.operators().CountDocuments(opCtx, filter)
	if err != nil {
		return false, fmt.Errorf("count operators: %w", err)
	}
	return n > 0, nil
}

// CreateOperator inserts a new operator and returns its id.
func (s *Store) CreateOperator(ctx context.Context, op models.Operator) (primitive.ObjectID, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.operators().InsertOne(opCtx, op)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert operator: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// UpdateOperator applies a partial field update to an operator.
func (s *Store) UpdateOperator(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.operators().UpdateOne(opCtx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update operator: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
