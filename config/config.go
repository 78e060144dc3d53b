// Package config provides configuration management for the fertilizer service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Gateway timeouts are clamped to this range.
const (
	MinGatewayTimeout = 10 * time.Second
	MaxGatewayTimeout = 30 * time.Second
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Soil      SoilConfig
	Weather   WeatherConfig
	Reference ReferenceConfig
	LLM       LLMConfig
	Knowledge KnowledgeConfig
	Database  DatabaseConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	RequestTimeout time.Duration
	ChatRateLimit  int
}

// CacheConfig holds the prescription cache configuration.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// SoilConfig configures the soil fertilizer prescription API.
type SoilConfig struct {
	URL             string
	APIKey          string
	Timeout         time.Duration
	FallbackEnabled bool
}

// WeatherConfig configures the surface observation API.
type WeatherConfig struct {
	URL      string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ReferenceConfig locates the crop table, catalog and farm profile.
// An empty CatalogDir uses the embedded data and disables reloading.
type ReferenceConfig struct {
	CatalogDir      string
	FarmProfilePath string
	TopN            int
}

// LLMConfig configures the chat language model.
type LLMConfig struct {
	Enabled     bool
	Endpoint    string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64 // answer generation only; routing runs at 0
}

// KnowledgeConfig configures the passage index.
type KnowledgeConfig struct {
	Path string
	TopK int
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 45*time.Second),
			ChatRateLimit:  getEnvInt("CHAT_RATE_LIMIT", 10),
		},
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 1000),
			TTL:  getEnvDuration("CACHE_TTL", 10*time.Minute),
		},
		Soil: SoilConfig{
			URL:             getEnv("SOIL_API_URL", "http://apis.data.go.kr/1390802/SoilEnviron/FrtlzrUseExp/getSoilFrtlzrExprnInfo"),
			APIKey:          getEnv("SOIL_API_KEY", ""),
			Timeout:         clampTimeout(getEnvDuration("SOIL_API_TIMEOUT", 10*time.Second)),
			FallbackEnabled: getEnvBool("SOIL_FALLBACK_ENABLED", true),
		},
		Weather: WeatherConfig{
			URL:      getEnv("KMA_API_URL", "https://apihub.kma.go.kr/api/typ01/url/kma_sfctm2.php"),
			APIKey:   getEnv("KMA_API_KEY", ""),
			Timeout:  clampTimeout(getEnvDuration("KMA_API_TIMEOUT", 30*time.Second)),
			CacheTTL: getEnvDuration("WEATHER_CACHE_TTL", 10*time.Minute),
		},
		Reference: ReferenceConfig{
			CatalogDir:      getEnv("CATALOG_DIR", ""),
			FarmProfilePath: getEnv("FARM_PROFILE_PATH", ""),
			TopN:            getEnvPositiveInt("RECOMMEND_TOP_N", 3),
		},
		LLM: LLMConfig{
			Enabled:     getEnvBool("LLM_ENABLED", false),
			Endpoint:    getEnv("LLM_ENDPOINT", "http://localhost:11434"),
			Model:       getEnv("LLM_MODEL", "llama3.2"),
			Timeout:     getEnvDuration("LLM_TIMEOUT", 20*time.Second),
			MaxRetries:  getEnvNonNegativeInt("LLM_MAX_RETRIES", 1),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
		},
		Knowledge: KnowledgeConfig{
			Path: getEnv("KNOWLEDGE_DB", ":memory:"),
			TopK: getEnvPositiveInt("KNOWLEDGE_TOP_K", 5),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "fertilizer_service"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) int {
	if i := getEnvInt(key, defaultValue); i > 0 {
		return i
	}
	return defaultValue
}

func getEnvNonNegativeInt(key string, defaultValue int) int {
	if i := getEnvInt(key, defaultValue); i >= 0 {
		return i
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func clampTimeout(d time.Duration) time.Duration {
	switch {
	case d < MinGatewayTimeout:
		return MinGatewayTimeout
	case d > MaxGatewayTimeout:
		return MaxGatewayTimeout
	default:
		return d
	}
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
