package services

import (
	"context"
	"errors"
	"net/http"

	"surf-forecast/internal/apis/dtos"
	"surf-forecast/internal/models"
	"surf-forecast/internal/repositories"
	"surf-forecast/internal/utils"
	"surf-forecast/pkg/mongodb"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const somethingWentWrong = "Something went wrong!"

var (
	ErrUserNotFound     = errors.New("User not found!")
	ErrPasswordMismatch = errors.New("Password does not match!")
	errInternal         = errors.New(somethingWentWrong)
)

type AuthService interface {
	Signup(ctx context.Context, req bson.M) (*models.User, uint, error)
	Authenticate(ctx context.Context, req *dtos.AuthenticateRequest) (*dtos.AuthResponse, uint, error)
	GetUser(ctx context.Context, userID string) (*models.User, uint, error)
	ChangePassword(ctx context.Context, userID string, req *dtos.ChangePasswordRequest) (*models.User, uint, error)
	Logout(ctx context.Context, token string, claims *utils.Claims) (uint, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	jwtService utils.JWTService
	tokenRepo  repositories.TokenRepository
	clock      clockwork.Clock
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepository, jwtService utils.JWTService, tokenRepo repositories.TokenRepository, clock clockwork.Clock, logger *zap.Logger) AuthService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
		clock:      clock,
		logger:     logger,
	}
}

// Signup stores the payload as a new user. The payload is validated by the users collection,
// so missing or undeclared fields come back as 422 and a taken email as 409.
func (s *authService) Signup(ctx context.Context, req bson.M) (*models.User, uint, error) {
	user, err := s.userRepo.Create(ctx, req)
	if err != nil {
		status, clientErr := s.writeFailure(err)
		return nil, status, clientErr
	}

	s.logger.Info("User created", zap.String("user_id", user.ID.Hex()))
	return user, http.StatusCreated, nil
}

func (s *authService) Authenticate(ctx context.Context, req *dtos.AuthenticateRequest) (*dtos.AuthResponse, uint, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, http.StatusInternalServerError, errInternal
	}
	if user == nil {
		return nil, http.StatusUnauthorized, ErrUserNotFound
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, http.StatusUnauthorized, ErrPasswordMismatch
	}

	token, err := s.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, http.StatusInternalServerError, errInternal
	}

	return &dtos.AuthResponse{
		User:  *user,
		Token: *token,
	}, http.StatusOK, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, uint, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, mongodb.ErrInvalidID) {
		return nil, http.StatusNotFound, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("Failed to find user", zap.String("user_id", userID), zap.Error(err))
		return nil, http.StatusInternalServerError, errInternal
	}
	if user == nil {
		return nil, http.StatusNotFound, ErrUserNotFound
	}

	return user, http.StatusOK, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dtos.ChangePasswordRequest) (*models.User, uint, error) {
	user, err := s.userRepo.UpdatePassword(ctx, userID, req.Password)
	if errors.Is(err, mongodb.ErrInvalidID) {
		return nil, http.StatusNotFound, ErrUserNotFound
	}
	if err != nil {
		status, clientErr := s.writeFailure(err)
		return nil, status, clientErr
	}
	if user == nil {
		return nil, http.StatusNotFound, ErrUserNotFound
	}

	return user, http.StatusOK, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, token string, claims *utils.Claims) (uint, error) {
	if err := s.tokenRepo.BlacklistToken(ctx, token, claims.ExpiresAt.Sub(s.clock.Now())); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("user_id", claims.UserID), zap.Error(err))
		return http.StatusInternalServerError, errInternal
	}
	return http.StatusOK, nil
}

// writeFailure maps a failed write to the status the client sees. Server-side rejections keep
// the server's message.
func (s *authService) writeFailure(err error) (uint, error) {
	switch {
	case mongodb.IsConstraintViolation(err):
		return http.StatusConflict, err
	case mongodb.IsStorageError(err):
		return http.StatusUnprocessableEntity, err
	default:
		s.logger.Error("Failed to write user", zap.Error(err))
		return http.StatusInternalServerError, errInternal
	}
}
