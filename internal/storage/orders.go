package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/avigsen/estatebot/core/logger"
	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder persists the order snapshot and bumps the owning user's
// aggregate counters in a single $inc update. The insert is authoritative:
// once the order document exists, a failed counter update must not bubble up
// as an order failure, or a retry would duplicate the order. The half-applied
// state is logged instead; aggregates are display-only and self-correct on
// the next successful order.
func (s *Store) CreateOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	res, err := s.orders().InsertOne(opCtx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert order: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)

	_, err = s.users().UpdateOne(opCtx,
		bson.M{"_id": order.UserID},
		bson.M{"$inc": bson.M{
			"orders_count":    1,
			"total_spent_rub": order.TotalRUB,
			"total_spent_czk": order.TotalCZK,
		}},
	)
	if err != nil {
		logger.DB.Error("order.stats_inc_failed",
			"order_id", id.Hex(),
			"user_id", order.UserID.Hex(),
			"error", err.Error(),
		)
	}
	return id, nil
}

// OrdersBetween returns orders created in the half-open interval [from, to),
// oldest first. Used for CSV reporting.
func (s *Store) OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.orders().Find(opCtx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Order
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}
