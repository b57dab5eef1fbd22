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

// ListingsByCategory returns available listings of a category sorted by name.
func (s *Store) ListingsByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Listing, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.listings().Find(opCtx, bson.M{"category_id": categoryID, "available": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Listing
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return out, nil
}

// ListingsByCategoryAll returns every listing of a category, including
// unavailable ones. Used by management screens.
func (s *Store) ListingsByCategoryAll(ctx context.Context, categoryID primitive.ObjectID) ([]models.Listing, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.listings().Find(opCtx, bson.M{"category_id": categoryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Listing
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return out, nil
}

// AllListings returns every listing regardless of availability.
func (s *Store) AllListings(ctx context.Context) ([]models.Listing, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.listings().Find(opCtx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(opCtx)

	var out []models.Listing
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return out, nil
}

// ListingByID fetches one listing or ErrNotFound.
func (s *Store) ListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var l models.Listing
	err := s.listings().FindOne(opCtx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &l, nil
}

// CreateListing inserts a new listing and returns its id.
func (s *Store) CreateListing(ctx context.Context, l models.Listing) (primitive.ObjectID, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.listings().InsertOne(opCtx, l)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert listing: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// UpdateListing applies a partial field update to a listing.
func (s *Store) UpdateListing(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.listings().UpdateOne(opCtx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendPhoto attaches a photo to a listing. The first photo ever attached
// becomes the main one.
func (s *Store) AppendPhoto(ctx context.Context, id primitive.ObjectID, photo models.Photo) error {
	l, err := s.ListingByID(ctx, id)
	if err != nil {
		return err
	}
	if len(l.Photos) == 0 {
		photo.Main = true
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.listings().UpdateOne(opCtx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"photos": photo}},
	)
	if err != nil {
		return fmt.Errorf("append photo: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
