package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/circuitbreaker"
)

// Readiness status labels.
const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

// HealthChecker reports whether a hard dependency is usable.
type HealthChecker interface {
	Check() error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func() error

func (f HealthCheckFunc) Check() error { return f() }

// HealthHandler serves the liveness and readiness probes. Checkers are hard
// dependencies; circuit breakers only downgrade the status, since an open
// upstream circuit is served from fallback data.
type HealthHandler struct {
	checkers map[string]HealthChecker
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: map[string]HealthChecker{},
		breakers: map[string]*circuitbreaker.CircuitBreaker{},
	}
}

func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.breakers[name] = cb
}

// Register mounts /healthz and /readyz.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness godoc
// @Summary     Liveness probe
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// Readiness godoc
// @Summary     Readiness probe
// @Description 503 when a dependency check fails. Open circuits keep the service ready with status "degraded".
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Failure     503 {object} map[string]interface{}
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := make(map[string]interface{}, len(h.checkers)+len(h.breakers))

	failed := false
	for name, checker := range h.checkers {
		if err := checker.Check(); err != nil {
			checks[name] = err.Error()
			failed = true
			continue
		}
		checks[name] = statusOK
	}

	open := make([]string, 0)
	for name, cb := range h.breakers {
		st := cb.GetStats()
		checks[name+"_circuit"] = st.State
		if !st.IsHealthy {
			open = append(open, name)
		}
	}
	sort.Strings(open)

	if len(checks) == 0 {
		checks["service"] = statusOK
	}

	code, label := http.StatusOK, statusOK
	switch {
	case failed:
		code, label = http.StatusServiceUnavailable, statusUnavailable
	case len(open) > 0:
		label = statusDegraded
	}

	body := gin.H{"status": label, "checks": checks}
	if len(open) > 0 {
		body["open_circuits"] = open
	}
	c.JSON(code, body)
}
