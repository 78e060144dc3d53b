//go:build !integration

package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig returns a configuration that needs no network or database.
func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RateLimit:      100,
			RateWindow:     time.Minute,
			ChatRateLimit:  10,
			RequestTimeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{
			Size: 100,
			TTL:  time.Minute,
		},
		Soil: config.SoilConfig{
			URL:             "http://127.0.0.1:1/soil",
			Timeout:         50 * time.Millisecond,
			FallbackEnabled: true,
		},
		Weather: config.WeatherConfig{
			URL:      "http://127.0.0.1:1/weather",
			Timeout:  50 * time.Millisecond,
			CacheTTL: time.Minute,
		},
		Reference: config.ReferenceConfig{TopN: 3},
		Knowledge: config.KnowledgeConfig{Path: ":memory:", TopK: 5},
		Log:       config.LogConfig{Level: "error"},
	}
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
