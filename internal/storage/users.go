package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertUser creates or refreshes a user profile keyed by Telegram id and
// returns the current document.
func (s *Store) UpsertUser(ctx context.Context, telegramID int64, firstName, username string) (*models.User, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"telegram_id": telegramID}
	update := bson.M{
		"$set": bson.M{
			"first_name": firstName,
			"username":   username,
		},
		"$setOnInsert": bson.M{
			"telegram_id": telegramID,
			"created_at":  time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := s.users().FindOneAndUpdate(opCtx, filter, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

// UserByTelegramID fetches a user profile or ErrNotFound.
func (s *Store) UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var user models.User
	err := s.users().FindOne(opCtx, bson.M{"telegram_id": telegramID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
