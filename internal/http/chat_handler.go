package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/middleware"
	"github.com/guttosm/fertilizer-service/internal/service"
)

// ChatHandler serves the farm assistant.
type ChatHandler struct {
	assistant service.Assistant
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(assistant service.Assistant) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// RegisterRoutes registers POST /chat behind its own rate limit when one is
// configured.
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	if cfg != nil && cfg.ChatRateLimit > 0 {
		limiter := middleware.NewRateLimiterWithKey(cfg.ChatRateLimit, cfg.RateWindow, middleware.ByClientIPAndRoute)
		rg.POST("/chat", limiter.Middleware(), h.Ask)
		return
	}
	rg.POST("/chat", h.Ask)
}

// Ask handles POST /api/chat.
//
// @Summary      Ask the farm assistant
// @Description  Routes the question to a direct answer from the farm profile or to an answer grounded on the agronomy documents, which are listed in sources.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request body dto.ChatRequest true "Question"
// @Success      200 {object} dto.SuccessResponse{data=model.ChatAnswer} "Answer"
// @Failure      400 {object} dto.ErrorResponse "Empty message"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      503 {object} dto.ErrorResponse "Language model unavailable"
// @Router       /api/chat [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	req, err := BuildRequestAndValidate[dto.ChatRequest](c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Message)
	if err != nil {
		middleware.AuditLogError(c, middleware.ActionChat, "chat failed", err, nil)
		writeServiceError(c, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionChat, "chat answered", map[string]interface{}{
		"routing": string(answer.Routing),
		"sources": len(answer.Sources),
	})
	NewResponseBuilder(c).SuccessOK(answer)
}
