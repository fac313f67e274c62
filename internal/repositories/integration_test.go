//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"surf-forecast/internal/models"
	"surf-forecast/internal/utils"
	"surf-forecast/pkg/mongodb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func startDatabase(ctx context.Context, t *testing.T) *mongodb.Database {
	t.Helper()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err, "start mongodb container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate mongodb container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db := mongodb.NewDatabase(mongodb.MongoDbConfigModel{ConnectionUrl: uri, DatabaseName: "surf-forecast-test"}, nil)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { _ = db.Disconnect(context.Background()) })
	return db
}

func TestRepositories_AgainstMongo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	db := startDatabase(ctx, t)
	users, err := NewUserRepository(db)
	require.NoError(t, err)
	beaches, err := NewBeachRepository(db)
	require.NoError(t, err)
	require.NoError(t, db.SetupCollections(ctx))

	owner := primitive.NewObjectID()

	t.Run("beach with a wrong lat type fails validation", func(t *testing.T) {
		_, err := beaches.Create(ctx, bson.M{"lat": "bad", "lng": 151.289824, "name": "Manly", "position": "E"}, owner)
		require.Error(t, err)
		assert.True(t, mongodb.IsValidationFailure(err))
	})

	t.Run("valid beach is stored for its owner", func(t *testing.T) {
		created, err := beaches.Create(ctx, bson.M{"lat": -33.792726, "lng": 151.289824, "name": "Manly", "position": "E"}, owner)
		require.NoError(t, err)
		assert.Equal(t, owner, created.User)
		assert.Equal(t, models.BeachPositionEast, created.Position)

		found, err := beaches.FindByUser(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("users are stored with a hashed password and a unique email", func(t *testing.T) {
		created, err := users.Create(ctx, bson.M{"name": "John Doe", "email": "john@mail.com", "password": "1234"})
		require.NoError(t, err)
		assert.True(t, utils.CheckPasswordHash("1234", created.Password))

		_, err = users.Create(ctx, bson.M{"name": "John Doe", "email": "john@mail.com", "password": "1234"})
		assert.True(t, mongodb.IsConstraintViolation(err))

		updated, err := users.UpdatePassword(ctx, created.ID.Hex(), "5678")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, utils.CheckPasswordHash("5678", updated.Password))
	})
}
