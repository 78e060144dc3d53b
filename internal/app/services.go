package app

import (
	"context"
	"fmt"

	"github.com/guttosm/fertilizer-service/config"
	"github.com/guttosm/fertilizer-service/internal/cache"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/gateway"
	"github.com/guttosm/fertilizer-service/internal/knowledge"
	"github.com/guttosm/fertilizer-service/internal/llm"
	"github.com/guttosm/fertilizer-service/internal/metrics"
	"github.com/guttosm/fertilizer-service/internal/reference"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds the domain services shared by the HTTP server,
// the CLI and the MCP server.
type ServiceComponents struct {
	Reference         *reference.Store
	Prescriptions     *gateway.ResilientProvider
	PrescriptionCache *cache.Sharded[model.NutrientPrescription]
	Recommendations   *service.Aggregator
	Tracker           *service.TrackerService
	WeatherClient     *gateway.WeatherClient
	Weather           *service.WeatherService
	Knowledge         *knowledge.Index
	Assistant         *service.ChatService
}

// InitializeServices loads reference data and wires the gateways and domain
// services. Only a reference data failure is fatal; a knowledge index that
// cannot be opened leaves chat answering without search context.
func InitializeServices(ctx context.Context, cfg config.Config) (*ServiceComponents, error) {
	store, err := reference.NewStore(reference.Options{
		CatalogDir:      cfg.Reference.CatalogDir,
		FarmProfilePath: cfg.Reference.FarmProfilePath,
	})
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	snap := store.Snapshot()
	log.Info().
		Str("source", snap.Source()).
		Int("crops", snap.Crops().Len()).
		Int("fertilizers", len(snap.Catalog())).
		Msg("Reference data loaded")

	sc := &ServiceComponents{Reference: store}

	opts := []gateway.ResilientOption{gateway.WithFallback(cfg.Soil.FallbackEnabled)}
	if cfg.Cache.Size > 0 {
		sc.PrescriptionCache = cache.New[model.NutrientPrescription](cfg.Cache.Size, cfg.Cache.TTL,
			cache.WithObserver(metrics.RecordPrescriptionCacheOperation))
		opts = append(opts, gateway.WithPrescriptionCache(sc.PrescriptionCache))
	}
	soil := gateway.NewSoilClient(cfg.Soil.URL, cfg.Soil.APIKey, cfg.Soil.Timeout)
	sc.Prescriptions = gateway.NewResilientProvider(soil, opts...)
	if cfg.Soil.APIKey == "" {
		log.Warn().Msg("SOIL_API_KEY is not set - prescriptions will come from fallback data")
	}

	sc.Recommendations = service.NewAggregator(sc.Prescriptions, store, service.WithTopN(cfg.Reference.TopN))
	sc.Tracker = service.NewTrackerService(service.NewMemoryTrackedCropStore(), store, sc.Recommendations)

	sc.WeatherClient = gateway.NewWeatherClient(cfg.Weather.URL, cfg.Weather.APIKey, cfg.Weather.Timeout)
	sc.Weather = service.NewWeatherService(sc.WeatherClient, snap.Farm().StationID, cfg.Weather.CacheTTL)

	idx, err := knowledge.OpenDefault(ctx, cfg.Knowledge.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Knowledge.Path).Msg("Knowledge index unavailable - chat answers without search context")
	} else {
		sc.Knowledge = idx
	}

	sc.Assistant = service.NewChatService(newLLMClient(cfg.LLM), searcher(sc.Knowledge), store,
		service.WithSearchLimit(cfg.Knowledge.TopK))

	return sc, nil
}

// Close releases the cache janitors and the knowledge index.
func (sc *ServiceComponents) Close() {
	if sc.PrescriptionCache != nil {
		sc.PrescriptionCache.Stop()
	}
	if sc.Knowledge != nil {
		if err := sc.Knowledge.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close knowledge index")
		}
	}
}

// newLLMClient returns nil when chat is disabled so the assistant reports
// it as unavailable.
func newLLMClient(cfg config.LLMConfig) llm.Client {
	if !cfg.Enabled {
		return nil
	}
	lc := llm.DefaultConfig()
	lc.Enabled = true
	lc.Endpoint = cfg.Endpoint
	lc.Model = cfg.Model
	if cfg.Timeout > 0 {
		lc.Timeout = cfg.Timeout
	}
	lc.MaxRetries = cfg.MaxRetries
	answer := lc.Tasks[llm.TaskAnswer]
	answer.Temperature = cfg.Temperature
	lc.Tasks[llm.TaskAnswer] = answer
	return llm.NewOllamaClient(lc, llm.MetricsObserver{})
}

func searcher(idx *knowledge.Index) knowledge.Searcher {
	if idx == nil {
		return nil
	}
	return idx
}
