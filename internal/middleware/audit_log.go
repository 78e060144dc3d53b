package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

// Audit action types.
const (
	ActionRecommend          = "recommend"
	ActionRecommendMulti     = "recommend_multi"
	ActionUpdateTrackedCrops = "update_tracked_crops"
	ActionRemoveTrackedCrop  = "remove_tracked_crop"
	ActionReloadReference    = "reload_reference"
	ActionChat               = "chat"
)

// Context keys read by the audit and request loggers.
const (
	farmIDKey   = "farm_id"
	degradedKey = "degraded"
)

// SetFarmID records the farm the request acted on.
func SetFarmID(c *gin.Context, farmID string) {
	c.Set(farmIDKey, farmID)
}

// MarkDegraded flags the response as computed from fallback data and sets
// the degraded-mode header.
func MarkDegraded(c *gin.Context) {
	c.Set(degradedKey, true)
	c.Header("X-Degraded-Mode", "true")
}

// IsDegraded reports whether MarkDegraded was called for the request.
func IsDegraded(c *gin.Context) bool {
	return c.GetBool(degradedKey)
}

// AuditLog records a business action through the async logger. It is a no-op
// when the log store is disabled.
func AuditLog(c *gin.Context, action, message string, fields map[string]interface{}) {
	auditLog(c, "info", action, message, nil, fields)
}

// AuditLogError records a failed business action.
func AuditLogError(c *gin.Context, action, message string, err error, fields map[string]interface{}) {
	auditLog(c, "error", action, message, err, fields)
}

func auditLog(c *gin.Context, level, action, message string, err error, fields map[string]interface{}) {
	al := GetAsyncLogger()
	if al == nil {
		return
	}

	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		FarmID:     c.GetString(farmIDKey),
		ActionType: action,
		Degraded:   IsDegraded(c),
		Fields:     fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	al.Log(entry)
}
