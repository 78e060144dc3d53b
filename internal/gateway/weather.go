package gateway

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/fertilizer-service/internal/circuitbreaker"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/metrics"
)

// Column positions in the KMA surface observation text format.
const (
	colTime          = 0
	colPrecipitation = 10
	colTemperature   = 11
	colHumidity      = 13
	colCloudCover    = 14
	minColumns       = 16

	minLineLength = 20
	missingValue  = -9

	weatherGateway = "weather"
)

var kst = time.FixedZone("KST", 9*60*60)

// WeatherClient fetches current observations from the KMA surface API.
type WeatherClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	now     func() time.Time
}

// NewWeatherClient creates a client with the given per-call timeout.
func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		breaker: NewBreaker("weather-api"),
		now:     time.Now,
	}
}

// Breaker returns the circuit breaker for health reporting.
func (c *WeatherClient) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// FetchWeather returns the latest observation for stationID.
func (c *WeatherClient) FetchWeather(ctx context.Context, stationID string) (*model.WeatherObservation, error) {
	obs, err := circuitbreaker.Do(ctx, c.breaker, func() (*model.WeatherObservation, error) {
		return c.fetch(ctx, stationID)
	})
	switch {
	case err == nil:
		metrics.RecordGatewayRequest(weatherGateway, "success")
	case failureReason(err) == "circuit_open":
		metrics.RecordGatewayRequest(weatherGateway, "circuit_open")
	default:
		metrics.RecordGatewayRequest(weatherGateway, "error")
	}
	return obs, err
}

func (c *WeatherClient) fetch(ctx context.Context, stationID string) (*model.WeatherObservation, error) {
	q := url.Values{}
	q.Set("stn", stationID)
	q.Set("help", "1")
	q.Set("authKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	return ParseObservation(body, stationID, c.now())
}

// ParseObservation extracts the first data line for stationID from a KMA text
// response. Values at or below -9 are missing and come back nil. When the
// observation time cannot be parsed, now is used.
func ParseObservation(body []byte, stationID string, now time.Time) (*model.WeatherObservation, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || len(line) <= minLineLength {
			continue
		}
		if !strings.Contains(line, stationID) {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < minColumns {
			return nil, fmt.Errorf("%w: %d columns, want at least %d", ErrMalformedResponse, len(parts), minColumns)
		}

		observedAt, err := time.ParseInLocation("200601021504", parts[colTime], kst)
		if err != nil {
			observedAt = now
		}

		return &model.WeatherObservation{
			StationID:     stationID,
			Temperature:   observed(parts[colTemperature]),
			Humidity:      observed(parts[colHumidity]),
			Precipitation: observed(parts[colPrecipitation]),
			CloudCover:    observed(parts[colCloudCover]),
			ObservedAt:    observedAt,
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil, fmt.Errorf("%w: station %s", ErrNoData, stationID)
}

func observed(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= missingValue {
		return nil
	}
	return &v
}
