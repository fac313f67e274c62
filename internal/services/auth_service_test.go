package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"surf-forecast/internal/apis/dtos"
	"surf-forecast/internal/utils"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authFixture struct {
	service AuthService
	users   *fakeUserRepository
	tokens  *fakeTokenRepository
	jwt     utils.JWTService
	clock   *clockwork.FakeClock
}

func newAuthFixture() *authFixture {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	users := newFakeUserRepository()
	tokens := newFakeTokenRepository()
	jwt := utils.NewJWTService("test-secret", 24*time.Hour, clock)
	return &authFixture{
		service: NewAuthService(users, jwt, tokens, clock, nil),
		users:   users,
		tokens:  tokens,
		jwt:     jwt,
		clock:   clock,
	}
}

func TestAuthService_Signup(t *testing.T) {
	f := newAuthFixture()

	user, status, err := f.service.Signup(context.Background(), bson.M{
		"name":     "John Doe",
		"email":    "john@mail.com",
		"password": "1234",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusCreated), status)
	assert.Equal(t, "john@mail.com", user.Email)
}

func TestAuthService_SignupFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  uint
		message string
	}{
		{name: "duplicate email", err: duplicateKeyError(), status: http.StatusConflict, message: "E11000 duplicate key error"},
		{name: "validation", err: validationError(), status: http.StatusUnprocessableEntity, message: "Document failed validation"},
		{name: "unexpected", err: errors.New("connection reset"), status: http.StatusInternalServerError, message: "Something went wrong!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.users.createErr = tt.err

			_, status, err := f.service.Signup(context.Background(), bson.M{"email": "john@mail.com"})

			require.Error(t, err)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture()
	user := f.users.add("John Doe", "john@mail.com", "1234")

	resp, status, err := f.service.Authenticate(context.Background(), &dtos.AuthenticateRequest{
		Email:    "john@mail.com",
		Password: "1234",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "John Doe", resp.Name)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestAuthService_AuthenticateRejections(t *testing.T) {
	f := newAuthFixture()
	f.users.add("John Doe", "john@mail.com", "1234")

	_, status, err := f.service.Authenticate(context.Background(), &dtos.AuthenticateRequest{Email: "jane@mail.com", Password: "1234"})
	assert.Equal(t, uint(http.StatusUnauthorized), status)
	assert.EqualError(t, err, "User not found!")

	_, status, err = f.service.Authenticate(context.Background(), &dtos.AuthenticateRequest{Email: "john@mail.com", Password: "4321"})
	assert.Equal(t, uint(http.StatusUnauthorized), status)
	assert.EqualError(t, err, "Password does not match!")

	f.users.findErr = errors.New("timeout")
	_, status, _ = f.service.Authenticate(context.Background(), &dtos.AuthenticateRequest{Email: "john@mail.com", Password: "1234"})
	assert.Equal(t, uint(http.StatusInternalServerError), status)
}

func TestAuthService_GetUser(t *testing.T) {
	f := newAuthFixture()
	user := f.users.add("John Doe", "john@mail.com", "1234")

	found, status, err := f.service.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.Equal(t, user, found)

	_, status, err = f.service.GetUser(context.Background(), primitive.NewObjectID().Hex())
	assert.Equal(t, uint(http.StatusNotFound), status)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, status, _ = f.service.GetUser(context.Background(), "not-an-id")
	assert.Equal(t, uint(http.StatusNotFound), status)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	user := f.users.add("John Doe", "john@mail.com", "1234")

	_, status, err := f.service.ChangePassword(context.Background(), user.ID.Hex(), &dtos.ChangePasswordRequest{Password: "5678"})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.True(t, utils.CheckPasswordHash("5678", user.Password))

	_, status, _ = f.service.ChangePassword(context.Background(), primitive.NewObjectID().Hex(), &dtos.ChangePasswordRequest{Password: "5678"})
	assert.Equal(t, uint(http.StatusNotFound), status)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	token, err := f.jwt.GenerateToken(primitive.NewObjectID().Hex())
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(*token)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	status, err := f.service.Logout(context.Background(), *token, claims)

	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.Equal(t, 23*time.Hour, f.tokens.revoked[*token])
}

func TestAuthService_LogoutRedisFailure(t *testing.T) {
	f := newAuthFixture()
	f.tokens.err = errors.New("redis down")

	status, err := f.service.Logout(context.Background(), "token", &utils.Claims{UserID: "u", ExpiresAt: f.clock.Now().Add(time.Hour)})

	assert.Equal(t, uint(http.StatusInternalServerError), status)
	assert.EqualError(t, err, "Something went wrong!")
}
