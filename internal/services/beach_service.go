package services

import (
	"context"
	"errors"
	"net/http"

	"surf-forecast/internal/models"
	"surf-forecast/internal/repositories"
	"surf-forecast/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type BeachService interface {
	Create(ctx context.Context, userID string, req bson.M) (*models.Beach, uint, error)
	ListForUser(ctx context.Context, userID string) ([]models.Beach, uint, error)
}

type beachService struct {
	beachRepo repositories.BeachRepository
	logger    *zap.Logger
}

func NewBeachService(beachRepo repositories.BeachRepository, logger *zap.Logger) BeachService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &beachService{
		beachRepo: beachRepo,
		logger:    logger,
	}
}

func (s *beachService) Create(ctx context.Context, userID string, req bson.M) (*models.Beach, uint, error) {
	owner, err := mongodb.ToObjectID(userID)
	if err != nil {
		return nil, http.StatusUnauthorized, err
	}

	beach, err := s.beachRepo.Create(ctx, req, owner)
	if err != nil {
		if mongodb.IsStorageError(err) {
			return nil, http.StatusUnprocessableEntity, err
		}
		s.logger.Error("Failed to create beach", zap.String("user_id", userID), zap.Error(err))
		return nil, http.StatusInternalServerError, err
	}

	return beach, http.StatusCreated, nil
}

func (s *beachService) ListForUser(ctx context.Context, userID string) ([]models.Beach, uint, error) {
	owner, err := mongodb.ToObjectID(userID)
	if err != nil {
		return nil, http.StatusUnauthorized, err
	}

	beaches, err := s.beachRepo.FindByUser(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to list beaches", zap.String("user_id", userID), zap.Error(err))
		return nil, http.StatusInternalServerError, errors.New(somethingWentWrong)
	}
	return beaches, http.StatusOK, nil
}
