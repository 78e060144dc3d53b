package gateway

import (
	"context"
	"time"

	"github.com/guttosm/fertilizer-service/internal/cache"
	"github.com/guttosm/fertilizer-service/internal/circuitbreaker"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	// ProviderSoilAPI marks prescriptions that came from the soil API.
	ProviderSoilAPI = "soil_api"
	// ProviderFallback marks the static substitute prescription.
	ProviderFallback = "fallback"

	soilGateway = "soil"
)

// PrescriptionFetcher is the raw upstream call.
type PrescriptionFetcher interface {
	FetchPrescription(ctx context.Context, cropCode string, soil model.SoilSample) (model.NutrientPrescription, error)
}

// FallbackPrescription returns the prescription served when the soil API is
// unavailable. The values are the barley standard and are the same for every
// crop.
func FallbackPrescription(cropCode string) model.NutrientPrescription {
	return model.NutrientPrescription{
		CropCode: cropCode,
		Base:     model.NPK{N: 4.9, P: 24.8, K: 3.0},
		Topdress: model.NPK{N: 3.2, P: 0, K: 0},
		Compost:  model.CompostRates{Cattle: 1500, Pig: 330, Chicken: 255, Mixed: 541},
	}
}

// ResilientOption configures a ResilientProvider.
type ResilientOption func(*ResilientProvider)

// WithBreaker replaces the default circuit breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) ResilientOption {
	return func(p *ResilientProvider) {
		if cb != nil {
			p.breaker = cb
		}
	}
}

// WithPrescriptionCache enables caching of successful upstream results.
func WithPrescriptionCache(c cache.WithMetrics[model.NutrientPrescription]) ResilientOption {
	return func(p *ResilientProvider) {
		p.cache = c
	}
}

// WithFallback toggles the static fallback. When disabled, upstream failures
// are returned as errors.
func WithFallback(enabled bool) ResilientOption {
	return func(p *ResilientProvider) {
		p.fallbackEnabled = enabled
	}
}

// ResilientProvider wraps a PrescriptionFetcher with a circuit breaker, an
// optional result cache and the static fallback. It implements
// service.PrescriptionProvider.
type ResilientProvider struct {
	fetcher         PrescriptionFetcher
	breaker         *circuitbreaker.CircuitBreaker
	cache           cache.WithMetrics[model.NutrientPrescription]
	fallbackEnabled bool
}

// NewResilientProvider creates a provider with fallback enabled and no cache.
func NewResilientProvider(fetcher PrescriptionFetcher, opts ...ResilientOption) *ResilientProvider {
	p := &ResilientProvider{
		fetcher:         fetcher,
		fallbackEnabled: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = NewBreaker("soil-api")
	}
	return p
}

// NewBreaker creates a gateway circuit breaker that reports its state to
// Prometheus.
func NewBreaker(name string) *circuitbreaker.CircuitBreaker {
	metrics.RecordCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             name,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.RecordCircuitBreakerState(name, int(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

// Breaker returns the circuit breaker for health reporting.
func (p *ResilientProvider) Breaker() *circuitbreaker.CircuitBreaker {
	return p.breaker
}

// FetchPrescription returns the upstream prescription, a cached copy of it, or
// the fallback.
func (p *ResilientProvider) FetchPrescription(ctx context.Context, cropCode string, soil model.SoilSample) (model.SourcedPrescription, error) {
	key := cropCode + "|" + soil.Key()
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			metrics.RecordGatewayRequest(soilGateway, "cache_hit")
			return model.SourcedPrescription{
				Prescription: cached,
				Source:       model.PrescriptionSource{Provider: ProviderSoilAPI, Cached: true},
			}, nil
		}
	}

	prescription, err := circuitbreaker.Do(ctx, p.breaker, func() (model.NutrientPrescription, error) {
		return p.fetcher.FetchPrescription(ctx, cropCode, soil)
	})
	if err == nil && prescription.CropCode == "" {
		prescription.CropCode = cropCode
	}
	if err == nil {
		metrics.RecordGatewayRequest(soilGateway, "success")
		if p.cache != nil {
			p.cache.Set(key, prescription)
			metrics.UpdatePrescriptionCacheSize(p.cache.Metrics().Size)
		}
		return model.SourcedPrescription{
			Prescription: prescription,
			Source:       model.PrescriptionSource{Provider: ProviderSoilAPI},
		}, nil
	}

	reason := failureReason(err)
	if reason == "circuit_open" {
		metrics.RecordGatewayRequest(soilGateway, "circuit_open")
	} else {
		metrics.RecordGatewayRequest(soilGateway, "error")
	}

	if !p.fallbackEnabled {
		return model.SourcedPrescription{}, err
	}

	metrics.RecordGatewayFallback(soilGateway)
	log.Warn().
		Err(err).
		Str("gateway", soilGateway).
		Str("crop_code", cropCode).
		Str("reason", reason).
		Msg("soil API unavailable, serving fallback prescription")

	return model.SourcedPrescription{
		Prescription: FallbackPrescription(cropCode),
		Source: model.PrescriptionSource{
			Provider: ProviderFallback,
			Degraded: true,
			Reason:   reason,
		},
	}, nil
}
