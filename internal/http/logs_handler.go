package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/service"
)

// LogsHandler exposes stored request and audit log entries.
type LogsHandler struct {
	logs service.LoggingService
}

// NewLogsHandler creates a LogsHandler.
func NewLogsHandler(logs service.LoggingService) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// RegisterRoutes registers GET /logs.
func (h *LogsHandler) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/logs", h.Query)
}

// Query handles GET /api/logs.
//
// @Summary      Query stored logs
// @Description  Returns stored request and audit entries, newest first, with per-action counts.
// @Tags         Logs
// @Produce      json
// @Param        request_id query string false "Request ID"
// @Param        level query string false "Log level" Enums(info, warn, error)
// @Param        action_type query string false "Audit action"
// @Param        path query string false "Path substring"
// @Param        start query string false "Earliest timestamp (RFC 3339)" format(date-time)
// @Param        end query string false "Latest timestamp (RFC 3339)" format(date-time)
// @Param        limit query int false "Page size" default(50) minimum(1) maximum(500)
// @Param        skip query int false "Entries to skip" minimum(0)
// @Success      200 {object} dto.SuccessResponse{data=dto.LogsResponse} "Log page"
// @Failure      400 {object} dto.ErrorResponse "Invalid query"
// @Failure      503 {object} dto.ErrorResponse "Log store unavailable"
// @Router       /api/logs [get]
func (h *LogsHandler) Query(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var q dto.LogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	ctx := c.Request.Context()
	opts := q.Options()
	entries, err := h.logs.QueryLogs(ctx, opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
		return
	}
	total, err := h.logs.CountLogs(ctx, opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
		return
	}
	actions, err := h.logs.ActionCounts(ctx, opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
		return
	}

	if entries == nil {
		entries = []model.LogEntry{}
	}
	builder.SuccessOK(dto.LogsResponse{Total: total, Actions: actions, Entries: entries})
}
