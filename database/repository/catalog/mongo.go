package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spabook/database"
	"spabook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no catalog record matches.
var ErrNotFound = errors.New("catalog record not found")

// MongoCatalogRepo implements Repository using MongoDB.
type MongoCatalogRepo struct {
	providerColl *mongo.Collection
	serviceColl  *mongo.Collection
	promoColl    *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo() Repository {
	db := database.DB()
	return &MongoCatalogRepo{
		providerColl: db.Collection("providers"),
		serviceColl:  db.Collection("services"),
		promoColl:    db.Collection("promo_codes"),
	}
}

func (repo *MongoCatalogRepo) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	if err := repo.providerColl.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching provider %s: %w", id, err)
	}
	return &p, nil
}

func (repo *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Service
	if err := repo.serviceColl.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching service %s: %w", id, err)
	}
	return &s, nil
}

func (repo *MongoCatalogRepo) GetPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.PromoCode
	if err := repo.promoColl.FindOne(ctx, bson.M{"code": code}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching promo code %s: %w", code, err)
	}
	return &p, nil
}
