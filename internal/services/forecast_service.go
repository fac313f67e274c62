package services

import (
	"context"
	"errors"
	"net/http"

	"surf-forecast/internal/models"
	"surf-forecast/internal/repositories"
	"surf-forecast/pkg/mongodb"
	"surf-forecast/pkg/stormglass"

	"go.uber.org/zap"
)

const defaultRating = 1

var errForecastFailed = errors.New("Something went wrong")

// BeachForecast is a forecast point enriched with the beach it belongs to.
type BeachForecast struct {
	Lat      float64              `json:"lat"`
	Lng      float64              `json:"lng"`
	Name     string               `json:"name"`
	Position models.BeachPosition `json:"position"`
	Rating   int                  `json:"rating"`
	stormglass.ForecastPoint
}

// TimeForecast groups the forecasts of every beach for one point in time.
type TimeForecast struct {
	Time     string          `json:"time"`
	Forecast []BeachForecast `json:"forecast"`
}

// ForecastProcessingError wraps any failure while building forecasts.
type ForecastProcessingError struct {
	Err error
}

func (e *ForecastProcessingError) Error() string {
	return "Unexpected error during the forecast processing: " + e.Err.Error()
}

func (e *ForecastProcessingError) Unwrap() error {
	return e.Err
}

type ForecastService interface {
	ProcessForecastForBeaches(ctx context.Context, beaches []models.Beach) ([]TimeForecast, error)
	ForecastForUser(ctx context.Context, userID string) ([]TimeForecast, uint, error)
}

type forecastService struct {
	fetcher   stormglass.Fetcher
	beachRepo repositories.BeachRepository
	logger    *zap.Logger
}

func NewForecastService(fetcher stormglass.Fetcher, beachRepo repositories.BeachRepository, logger *zap.Logger) ForecastService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &forecastService{
		fetcher:   fetcher,
		beachRepo: beachRepo,
		logger:    logger,
	}
}

func (s *forecastService) ProcessForecastForBeaches(ctx context.Context, beaches []models.Beach) ([]TimeForecast, error) {
	enriched := make([]BeachForecast, 0)
	for _, beach := range beaches {
		points, err := s.fetcher.FetchPoints(ctx, beach.Lat, beach.Lng)
		if err != nil {
			return nil, &ForecastProcessingError{Err: err}
		}
		enriched = append(enriched, enrichBeachData(points, beach)...)
	}
	return mapForecastByTime(enriched), nil
}

func (s *forecastService) ForecastForUser(ctx context.Context, userID string) ([]TimeForecast, uint, error) {
	owner, err := mongodb.ToObjectID(userID)
	if err != nil {
		return nil, http.StatusInternalServerError, errForecastFailed
	}

	beaches, err := s.beachRepo.FindByUser(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to load beaches", zap.String("user_id", userID), zap.Error(err))
		return nil, http.StatusInternalServerError, errForecastFailed
	}

	forecast, err := s.ProcessForecastForBeaches(ctx, beaches)
	if err != nil {
		s.logger.Error("Failed to process forecast", zap.String("user_id", userID), zap.Error(err))
		return nil, http.StatusInternalServerError, errForecastFailed
	}
	return forecast, http.StatusOK, nil
}

func enrichBeachData(points []stormglass.ForecastPoint, beach models.Beach) []BeachForecast {
	out := make([]BeachForecast, 0, len(points))
	for _, point := range points {
		out = append(out, BeachForecast{
			Lat:           beach.Lat,
			Lng:           beach.Lng,
			Name:          beach.Name,
			Position:      beach.Position,
			Rating:        defaultRating,
			ForecastPoint: point,
		})
	}
	return out
}

// mapForecastByTime buckets points by time. Buckets keep the order in which their time was
// first seen, points keep their input order within a bucket.
func mapForecastByTime(points []BeachForecast) []TimeForecast {
	byTime := make([]TimeForecast, 0)
	index := make(map[string]int)
	for _, point := range points {
		if i, ok := index[point.Time]; ok {
			byTime[i].Forecast = append(byTime[i].Forecast, point)
			continue
		}
		index[point.Time] = len(byTime)
		byTime = append(byTime, TimeForecast{
			Time:     point.Time,
			Forecast: []BeachForecast{point},
		})
	}
	return byTime
}
