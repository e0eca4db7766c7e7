package scheduleRepo

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

// ErrNotFound is returned when no template or exception row matches.
var ErrNotFound = errors.New("schedule entry not found")

// MongoScheduleRepo implements Repository using MongoDB.
type MongoScheduleRepo struct {
	templateColl  *mongo.Collection
	exceptionColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a new instance of MongoScheduleRepo.
func NewMongoScheduleRepo() Repository {
	db := database.DB()
	return &MongoScheduleRepo{
		templateColl:  db.Collection("weekly_templates"),
		exceptionColl: db.Collection("schedule_exceptions"),
	}
}

func (repo *MongoScheduleRepo) GetWeeklyTemplate(ctx context.Context, providerID string, dayOfWeek int) (*models.WeeklyTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tpl models.WeeklyTemplate
	filter := bson.M{"provider_id": providerID, "day_of_week": dayOfWeek}
	if err := repo.templateColl.FindOne(ctx, filter).Decode(&tpl); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching weekly template for provider %s day %d: %w", providerID, dayOfWeek, err)
	}
	return &tpl, nil
}

func (repo *MongoScheduleRepo) GetException(ctx context.Context, providerID string, date string) (*models.ScheduleException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ex models.ScheduleException
	filter := bson.M{"provider_id": providerID, "date": date}
	if err := repo.exceptionColl.FindOne(ctx, filter).Decode(&ex); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching schedule exception for provider %s on %s: %w", providerID, date, err)
	}
	return &ex, nil
}

func (repo *MongoScheduleRepo) UpsertWeeklyTemplate(ctx context.Context, tpl *models.WeeklyTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": tpl.ProviderID, "day_of_week": tpl.DayOfWeek}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.templateColl.ReplaceOne(ctx, filter, tpl, opts); err != nil {
		return fmt.Errorf("error upserting weekly template: %w", err)
	}
	return nil
}

func (repo *MongoScheduleRepo) UpsertException(ctx context.Context, ex *models.ScheduleException) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": ex.ProviderID, "date": ex.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.exceptionColl.ReplaceOne(ctx, filter, ex, opts); err != nil {
		return fmt.Errorf("error upserting schedule exception: %w", err)
	}
	return nil
}
