package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spabook/database"
	"spabook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// ErrStatusConflict is returned by Update when the stored status no longer
// matches the expected one: a concurrent command transitioned the booking
// between this command's read and its write.
var ErrStatusConflict = errors.New("booking status changed concurrently")

// MongoBookingRepo implements Repository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() Repository {
	return &MongoBookingRepo{coll: database.DB().Collection("bookings")}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("error inserting booking %s: %w", b.ID, err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &b, nil
}

func (repo *MongoBookingRepo) Update(ctx context.Context, b *models.Booking, expectedStatus models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"id": b.ID, "status": expectedStatus}, b)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		// Rows are never deleted, so an unmatched filter means the status
		// moved under us, not that the booking vanished.
		if err := repo.coll.FindOne(ctx, bson.M{"id": b.ID}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// ListActiveInRange coarse-filters on start_time in Mongo, then refines with
// the buffered-interval overlap test in Go. A booking never spans more than a
// day, which bounds the coarse window.
func (repo *MongoBookingRepo) ListActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": []models.BookingStatus{models.BookingPending, models.BookingConfirmed}},
		"start_time": bson.M{
			"$gte": from.Add(-24 * time.Hour),
			"$lt":  to.Add(24 * time.Hour),
		},
	}
	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"start_time": 1}))
	if err != nil {
		return nil, fmt.Errorf("error finding active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		if b.BufferedStart().Before(to) && from.Before(b.BufferedEnd()) {
			out = append(out, b)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}

func (repo *MongoBookingRepo) ListByProviderRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"start_time":  bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"start_time": 1}))
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Booking
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return out, nil
}

func (repo *MongoBookingRepo) ListStalePending(ctx context.Context, before time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.BookingPending,
		"start_time": bson.M{"$lt": before},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding stale pending bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Booking
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding stale pending bookings: %w", err)
	}
	return out, nil
}
