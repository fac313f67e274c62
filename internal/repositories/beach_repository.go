package repositories

import (
	"context"
	"fmt"

	"surf-forecast/internal/models"
	"surf-forecast/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BeachRepository interface {
	Create(ctx context.Context, beach bson.M, userID primitive.ObjectID) (*models.Beach, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Beach, error)
}

type beachRepository struct {
	beaches *mongodb.Handle[models.Beach]
}

func NewBeachRepository(db *mongodb.Database) (BeachRepository, error) {
	beaches, err := mongodb.DefineModel[models.Beach](db, models.BeachSetup())
	if err != nil {
		return nil, fmt.Errorf("define beaches model: %w", err)
	}
	return &beachRepository{beaches: beaches}, nil
}

// Create stores the beach on behalf of userID. The owner always comes from the caller, never
// from the payload.
func (r *beachRepository) Create(ctx context.Context, beach bson.M, userID primitive.ObjectID) (*models.Beach, error) {
	doc := make(bson.M, len(beach)+1)
	for key, value := range beach {
		doc[key] = value
	}
	doc["user"] = userID
	return r.beaches.Insert(ctx, doc)
}

func (r *beachRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Beach, error) {
	return r.beaches.FindMany(ctx, bson.M{"user": userID})
}
