package services

import (
	"context"
	"sync"
	"time"

	"surf-forecast/internal/models"
	"surf-forecast/internal/utils"
	"surf-forecast/pkg/mongodb"
	"surf-forecast/pkg/stormglass"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUserRepository struct {
	users     map[string]*models.User
	createErr error
	findErr   error
	created   []bson.M
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*models.User)}
}

func (r *fakeUserRepository) add(name, email, password string) *models.User {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := &models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Password: hashed}
	r.users[user.ID.Hex()] = user
	return user
}

func (r *fakeUserRepository) Create(_ context.Context, user bson.M) (*models.User, error) {
	r.created = append(r.created, user)
	if r.createErr != nil {
		return nil, r.createErr
	}
	name, _ := user["name"].(string)
	email, _ := user["email"].(string)
	password, _ := user["password"].(string)
	return r.add(name, email, password), nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, userID string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if _, err := mongodb.ToObjectID(userID); err != nil {
		return nil, err
	}
	return r.users[userID], nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID string, password string) (*models.User, error) {
	if _, err := mongodb.ToObjectID(userID); err != nil {
		return nil, err
	}
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	return user, nil
}

type fakeTokenRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{revoked: make(map[string]time.Duration)}
}

func (r *fakeTokenRepository) BlacklistToken(_ context.Context, token string, expiresIn time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.revoked[token] = expiresIn
	return nil
}

func (r *fakeTokenRepository) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[token]
	return ok, r.err
}

type fakeBeachRepository struct {
	beaches   []models.Beach
	createErr error
	findErr   error
}

func (r *fakeBeachRepository) Create(_ context.Context, beach bson.M, userID primitive.ObjectID) (*models.Beach, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	created := models.Beach{ID: primitive.NewObjectID(), User: userID}
	created.Name, _ = beach["name"].(string)
	created.Lat, _ = beach["lat"].(float64)
	created.Lng, _ = beach["lng"].(float64)
	if position, ok := beach["position"].(string); ok {
		created.Position = models.BeachPosition(position)
	}
	r.beaches = append(r.beaches, created)
	return &created, nil
}

func (r *fakeBeachRepository) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Beach, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]models.Beach, 0)
	for _, beach := range r.beaches {
		if beach.User == userID {
			out = append(out, beach)
		}
	}
	return out, nil
}

type fakeFetcher struct {
	points map[[2]float64][]stormglass.ForecastPoint
	err    error
}

func (f *fakeFetcher) FetchPoints(_ context.Context, lat, lng float64) ([]stormglass.ForecastPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.points[[2]float64{lat, lng}], nil
}

func duplicateKeyError() error {
	return &mongodb.StorageError{
		Op:         mongodb.MethodInsert,
		Collection: models.UsersCollection,
		Code:       11000,
		Message:    `E11000 duplicate key error collection: surf-forecast.users index: email_id dup key: { email: "john@mail.com" }`,
		Err: mongo.WriteException{WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: surf-forecast.users index: email_id dup key: { email: "john@mail.com" }`,
		}}},
	}
}

func validationError() error {
	return &mongodb.StorageError{
		Op:      mongodb.MethodInsert,
		Code:    121,
		Message: "Document failed validation",
		Err:     mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}},
	}
}
