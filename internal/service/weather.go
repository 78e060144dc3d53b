package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// DefaultWeatherTTL is how long an observation is served from cache.
const DefaultWeatherTTL = 10 * time.Minute

// WeatherSource fetches the latest observation for a station. A nil
// observation with a nil error means the station reported nothing.
type WeatherSource interface {
	FetchWeather(ctx context.Context, stationID string) (*model.WeatherObservation, error)
}

type weatherEntry struct {
	observation model.WeatherObservation
	fetchedAt   time.Time
}

// WeatherService serves classified observations per station. The cache is
// an immutable map replaced on every write, so readers never lock.
type WeatherService struct {
	source         WeatherSource
	defaultStation string
	ttl            time.Duration
	now            func() time.Time

	cache atomic.Pointer[map[string]weatherEntry]
	mu    sync.Mutex
}

// NewWeatherService creates a WeatherService. A non-positive ttl uses
// DefaultWeatherTTL.
func NewWeatherService(source WeatherSource, defaultStation string, ttl time.Duration) *WeatherService {
	if ttl <= 0 {
		ttl = DefaultWeatherTTL
	}
	s := &WeatherService{source: source, defaultStation: defaultStation, ttl: ttl, now: time.Now}
	s.cache.Store(&map[string]weatherEntry{})
	return s
}

// DefaultStation returns the station used when none is given.
func (s *WeatherService) DefaultStation() string {
	return s.defaultStation
}

// Current returns the cached observation for station if it is fresh and
// fetches a new one otherwise. It returns nil when no observation is
// available.
func (s *WeatherService) Current(ctx context.Context, station string) *model.WeatherObservation {
	station = s.station(station)
	if e, ok := (*s.cache.Load())[station]; ok && s.now().Sub(e.fetchedAt) < s.ttl {
		obs := e.observation
		return &obs
	}
	return s.Refresh(ctx, station)
}

// Refresh fetches a new observation for station and caches it. A failed
// fetch leaves the cache untouched and returns nil.
func (s *WeatherService) Refresh(ctx context.Context, station string) *model.WeatherObservation {
	station = s.station(station)
	obs, err := s.source.FetchWeather(ctx, station)
	if err != nil {
		log.Warn().Err(err).Str("station", station).Msg("weather observation unavailable")
		return nil
	}
	if obs == nil {
		return nil
	}

	out := *obs
	out.StationID = station
	out.Condition = Classify(out)

	s.mu.Lock()
	next := make(map[string]weatherEntry, len(*s.cache.Load())+1)
	for k, v := range *s.cache.Load() {
		next[k] = v
	}
	next[station] = weatherEntry{observation: out, fetchedAt: s.now()}
	s.cache.Store(&next)
	s.mu.Unlock()

	return &out
}

func (s *WeatherService) station(station string) string {
	if station = strings.TrimSpace(station); station != "" {
		return station
	}
	return s.defaultStation
}

// Classify maps an observation to a coarse condition. Rain wins over
// cloud cover, which wins over heat. Missing values never trigger a class.
func Classify(obs model.WeatherObservation) model.WeatherCondition {
	switch {
	case obs.Precipitation != nil && *obs.Precipitation > 0:
		return model.WeatherRainy
	case obs.CloudCover != nil && *obs.CloudCover > 7:
		return model.WeatherCloudy
	case obs.Temperature != nil && *obs.Temperature > 30:
		return model.WeatherHot
	default:
		return model.WeatherClear
	}
}

// ParseCity extracts the city or district from a Korean street address:
// the first token ending in 시, 구 or 군, else the second token.
func ParseCity(address string) string {
	parts := strings.Fields(address)
	for _, p := range parts {
		if strings.HasSuffix(p, "시") || strings.HasSuffix(p, "구") || strings.HasSuffix(p, "군") {
			return p
		}
	}
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}
