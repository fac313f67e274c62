package stormglass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"surf-forecast/internal/observability"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	weatherParams = "swellDirection,swellHeight,swellPeriod,waveDirection,waveHeight,windDirection,windSpeed"
	weatherSource = "noaa"
	forecastSpan  = 24 * time.Hour
)

// ForecastPoint is one hour of normalized weather data for a coordinate.
type ForecastPoint struct {
	Time           string  `json:"time"`
	SwellDirection float64 `json:"swellDirection"`
	SwellHeight    float64 `json:"swellHeight"`
	SwellPeriod    float64 `json:"swellPeriod"`
	WaveDirection  float64 `json:"waveDirection"`
	WaveHeight     float64 `json:"waveHeight"`
	WindDirection  float64 `json:"windDirection"`
	WindSpeed      float64 `json:"windSpeed"`
}

// Fetcher returns the forecast points for a coordinate.
type Fetcher interface {
	FetchPoints(ctx context.Context, lat, lng float64) ([]ForecastPoint, error)
}

// ClientRequestError means the request never got a response.
type ClientRequestError struct {
	Err error
}

func (e *ClientRequestError) Error() string {
	return "Unexpected error when trying to communicate to StormGlass: " + e.Err.Error()
}

func (e *ClientRequestError) Unwrap() error {
	return e.Err
}

// ResponseError means StormGlass answered with a non-200 status.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("Unexpected error returned by the StormGlass service: Error: %s Code: %d", e.Body, e.StatusCode)
}

// Client implements Fetcher against the StormGlass weather point API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Client) FetchPoints(ctx context.Context, lat, lng float64) ([]ForecastPoint, error) {
	params := url.Values{
		"lat":    {formatCoordinate(lat)},
		"lng":    {formatCoordinate(lng)},
		"params": {weatherParams},
		"source": {weatherSource},
		"end":    {strconv.FormatInt(c.clock.Now().Add(forecastSpan).Unix(), 10)},
	}
	fullURL := c.baseURL + "/weather/point?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &ClientRequestError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", c.token)

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	c.observeDuration(start)
	if err != nil {
		c.countRequest("client_error")
		c.logger.Warn("StormGlass request failed", zap.Error(err))
		return nil, &ClientRequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		c.countRequest("response_error")
		c.logger.Warn("StormGlass returned an error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, &ResponseError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var weather weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&weather); err != nil {
		c.countRequest("client_error")
		return nil, &ClientRequestError{Err: fmt.Errorf("decode response: %w", err)}
	}

	c.countRequest("success")
	return normalize(weather), nil
}

func (c *Client) countRequest(outcome string) {
	if c.metrics != nil {
		c.metrics.StormGlassRequests.WithLabelValues(outcome).Inc()
	}
}

func (c *Client) observeDuration(start time.Time) {
	if c.metrics != nil {
		c.metrics.StormGlassAPIDuration.Observe(c.clock.Since(start).Seconds())
	}
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// normalize keeps the points that carry every parameter from the requested source.
func normalize(weather weatherResponse) []ForecastPoint {
	points := make([]ForecastPoint, 0, len(weather.Hours))
	for _, hour := range weather.Hours {
		if !hour.valid() {
			continue
		}
		points = append(points, ForecastPoint{
			Time:           hour.Time,
			SwellDirection: *hour.SwellDirection.Noaa,
			SwellHeight:    *hour.SwellHeight.Noaa,
			SwellPeriod:    *hour.SwellPeriod.Noaa,
			WaveDirection:  *hour.WaveDirection.Noaa,
			WaveHeight:     *hour.WaveHeight.Noaa,
			WindDirection:  *hour.WindDirection.Noaa,
			WindSpeed:      *hour.WindSpeed.Noaa,
		})
	}
	return points
}

// StormGlass API response types.

type weatherResponse struct {
	Hours []forecastHour `json:"hours"`
}

type sourceValue struct {
	Noaa *float64 `json:"noaa"`
}

type forecastHour struct {
	Time           string      `json:"time"`
	SwellDirection sourceValue `json:"swellDirection"`
	SwellHeight    sourceValue `json:"swellHeight"`
	SwellPeriod    sourceValue `json:"swellPeriod"`
	WaveDirection  sourceValue `json:"waveDirection"`
	WaveHeight     sourceValue `json:"waveHeight"`
	WindDirection  sourceValue `json:"windDirection"`
	WindSpeed      sourceValue `json:"windSpeed"`
}

func (h forecastHour) valid() bool {
	return h.Time != "" &&
		h.SwellDirection.Noaa != nil &&
		h.SwellHeight.Noaa != nil &&
		h.SwellPeriod.Noaa != nil &&
		h.WaveDirection.Noaa != nil &&
		h.WaveHeight.Noaa != nil &&
		h.WindDirection.Noaa != nil &&
		h.WindSpeed.Noaa != nil
}
