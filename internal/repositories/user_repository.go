package repositories

import (
	"context"
	"fmt"

	"surf-forecast/internal/models"
	"surf-forecast/internal/utils"
	"surf-forecast/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
)

type UserRepository interface {
	Create(ctx context.Context, user bson.M) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID string, password string) (*models.User, error)
}

type userRepository struct {
	users *mongodb.Handle[models.User]
}

func NewUserRepository(db *mongodb.Database) (UserRepository, error) {
	users, err := mongodb.DefineModel[models.User](db, models.UserSetup())
	if err != nil {
		return nil, fmt.Errorf("define users model: %w", err)
	}
	users.Pre(mongodb.MethodInsert, hashPasswordField)
	users.Pre(mongodb.MethodUpdate, hashPasswordField)

	return &userRepository{users: users}, nil
}

// hashPasswordField replaces a plain password in the document with its bcrypt hash.
// Documents without a string password are left to the collection validator.
func hashPasswordField(_ context.Context, operand any) error {
	doc, ok := operand.(bson.M)
	if !ok || doc == nil {
		return nil
	}
	password, ok := doc["password"].(string)
	if !ok {
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	doc["password"] = hashed
	return nil
}

func (r *userRepository) Create(ctx context.Context, user bson.M) (*models.User, error) {
	return r.users.Insert(ctx, user)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.Find(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return r.users.FindByID(ctx, userID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID string, password string) (*models.User, error) {
	id, err := mongodb.ToObjectID(userID)
	if err != nil {
		return nil, err
	}
	return r.users.Update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": password}})
}
