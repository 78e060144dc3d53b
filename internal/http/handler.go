// Package http exposes the fertilizer service over gin.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/middleware"
	"github.com/guttosm/fertilizer-service/internal/service"
)

// DefaultTestCrop is the crop used by GET /api/fertilizer-prescription/test.
const DefaultTestCrop = "맥주보리"

// Handler serves the recommendation endpoints.
type Handler struct {
	recommendations service.RecommendationService
	reference       service.ReferenceSource
}

// NewHandler creates a new Handler instance.
func NewHandler(recommendations service.RecommendationService, ref service.ReferenceSource) *Handler {
	return &Handler{recommendations: recommendations, reference: ref}
}

// RegisterRoutes registers the recommendation endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.POST("/fertilizer-prescription", h.Recommend)
	rg.GET("/fertilizer-prescription/test", h.RecommendTest)
	rg.POST("/fertilizer-prescription/multiple", h.RecommendMultiple)
	rg.GET("/fertilizer-recommendation", h.RecommendCompact)
}

// Recommend handles POST /api/fertilizer-prescription.
//
// @Summary      Recommend fertilizer for one crop
// @Description  Fetches the standard prescription for the crop and soil sample, scales it to the farm area and ranks catalog products for base and topdress application. Omitted soil fields and farm area default to the farm profile. When the soil API is unavailable the fallback prescription is used and the response carries X-Degraded-Mode: true.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        request body dto.RecommendationRequest true "Crop and optional soil sample"
// @Success      200 {object} dto.SuccessResponse{data=model.RecommendationResult} "Recommendation"
// @Header       200 {string} X-Degraded-Mode "true when fallback data was used"
// @Failure      400 {object} dto.ErrorResponse "Invalid input or unsupported crop"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Soil API unavailable and fallback disabled"
// @Failure      504 {object} dto.ErrorResponse "Request timed out"
// @Router       /api/fertilizer-prescription [post]
func (h *Handler) Recommend(c *gin.Context) {
	req, err := BuildRequestAndValidate[dto.RecommendationRequest](c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	soil, area := req.Resolve(h.reference.Snapshot().Farm())
	h.single(c, middleware.ActionRecommend, req.CropName, soil, area, false)
}

// RecommendTest handles GET /api/fertilizer-prescription/test.
//
// @Summary      Recommend fertilizer for the default crop
// @Description  Runs the single-crop recommendation for 맥주보리 on the stored farm profile.
// @Tags         Recommendations
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.RecommendationResult} "Recommendation"
// @Failure      500 {object} dto.ErrorResponse "Soil API unavailable and fallback disabled"
// @Router       /api/fertilizer-prescription/test [get]
func (h *Handler) RecommendTest(c *gin.Context) {
	farm := h.reference.Snapshot().Farm()
	h.single(c, middleware.ActionRecommend, DefaultTestCrop, farm.Soil, farm.AreaM2, false)
}

// RecommendCompact handles GET /api/fertilizer-recommendation.
//
// @Summary      Compact recommendation
// @Description  Returns the crop, compost amounts and ranked products only, computed on the farm profile.
// @Tags         Recommendations
// @Produce      json
// @Param        crop_name query string true "Crop name" example(맥주보리)
// @Success      200 {object} dto.SuccessResponse{data=model.CompactRecommendation} "Compact recommendation"
// @Failure      400 {object} dto.ErrorResponse "Missing or unsupported crop"
// @Router       /api/fertilizer-recommendation [get]
func (h *Handler) RecommendCompact(c *gin.Context) {
	name := strings.TrimSpace(c.Query("crop_name"))
	if name == "" {
		writeServiceError(c, dto.ErrCropNameRequired)
		return
	}
	farm := h.reference.Snapshot().Farm()
	h.single(c, middleware.ActionRecommend, name, farm.Soil, farm.AreaM2, true)
}

// RecommendMultiple handles POST /api/fertilizer-prescription/multiple.
//
// @Summary      Recommend fertilizer for several crops
// @Description  Builds recommendations for up to three crops concurrently. Each crop succeeds or fails on its own; failures are listed in summary.errors.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        request body dto.MultiRecommendationRequest true "Crops and optional soil sample"
// @Success      200 {object} dto.SuccessResponse{data=model.BatchResult} "Batch result"
// @Header       200 {string} X-Degraded-Mode "true when fallback data was used"
// @Failure      400 {object} dto.ErrorResponse "Empty list or more than three crops"
// @Failure      504 {object} dto.ErrorResponse "Request timed out"
// @Router       /api/fertilizer-prescription/multiple [post]
func (h *Handler) RecommendMultiple(c *gin.Context) {
	req, err := BuildRequestAndValidate[dto.MultiRecommendationRequest](c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	soil, area := req.Resolve(h.reference.Snapshot().Farm())
	batch, err := h.recommendations.BuildMulti(c.Request.Context(), req.CropNames, soil, area)
	if err != nil {
		middleware.AuditLogError(c, middleware.ActionRecommendMulti, "batch recommendation failed", err, map[string]interface{}{
			"crops": req.CropNames,
		})
		writeServiceError(c, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionRecommendMulti, "batch recommendation built", map[string]interface{}{
		"crops":      req.CropNames,
		"successful": batch.Summary.Successful,
		"failed":     batch.Summary.Failed,
	})
	writeResult(c, batch, batch.Degraded)
}

func (h *Handler) single(c *gin.Context, action, cropName string, soil model.SoilSample, area float64, compact bool) {
	result, err := h.recommendations.BuildRecommendation(c.Request.Context(), cropName, soil, area)
	if err != nil {
		middleware.AuditLogError(c, action, "recommendation failed", err, map[string]interface{}{"crop": cropName})
		writeServiceError(c, err)
		return
	}

	middleware.AuditLog(c, action, "recommendation built", map[string]interface{}{
		"crop":     result.Crop.Name,
		"provider": result.Source.Provider,
	})
	if compact {
		writeResult(c, result.Compact(), result.Degraded())
		return
	}
	writeResult(c, result, result.Degraded())
}

// writeResult sends data and flags degraded results through the header and
// the success message.
func writeResult(c *gin.Context, data interface{}, degraded bool) {
	key := i18n.SuccessKeyRecommendation
	if degraded {
		middleware.MarkDegraded(c)
		key = i18n.SuccessKeyDegraded
	}
	NewResponseBuilder(c).Success(http.StatusOK, data, key)
}

// writeServiceError maps request and domain errors onto status codes.
func writeServiceError(c *gin.Context, err error) {
	builder := NewResponseBuilder(c)

	var ve *dto.ValidationError
	if errors.As(err, &ve) {
		builder.Error(http.StatusBadRequest, ve.Code, ve.Key, err)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		builder.Error(http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout, err)
		return
	}

	var se *service.Error
	if !errors.As(err, &se) {
		// gin binding and JSON syntax errors
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	switch service.KindOf(err) {
	case service.KindUnsupportedCrop:
		builder.Error(http.StatusBadRequest, dto.ErrCodeUnsupportedCrop, i18n.ErrKeyUnsupportedCrop, err)
	case service.KindInvalidInput:
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidInput, i18n.ErrKeyInvalidRequest, err)
	case service.KindTooManyCrops:
		builder.Error(http.StatusBadRequest, dto.ErrCodeTooManyCrops, i18n.ErrKeyTooManyCrops, err)
	case service.KindCropNotTracked:
		builder.Error(http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyCropNotTracked, err)
	case service.KindUpstreamUnavailable:
		builder.Error(http.StatusInternalServerError, dto.ErrCodeUpstreamUnavailable, i18n.ErrKeyUpstreamUnavailable, err)
	case service.KindChatUnavailable:
		builder.Error(http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyChatUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError, err)
	}
}
