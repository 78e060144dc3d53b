package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/middleware"
	"github.com/guttosm/fertilizer-service/internal/service"
)

// TrackerHandler serves the tracked crop endpoints.
type TrackerHandler struct {
	tracker   service.CropTracker
	reference service.ReferenceSource
}

// NewTrackerHandler creates a TrackerHandler.
func NewTrackerHandler(tracker service.CropTracker, ref service.ReferenceSource) *TrackerHandler {
	return &TrackerHandler{tracker: tracker, reference: ref}
}

// RegisterRoutes registers the tracked crop endpoints.
func (h *TrackerHandler) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	crops := rg.Group("/fertilizer-prescription/user-crops")
	crops.GET("", h.List)
	crops.POST("", h.Update)
	crops.GET("/:crop", h.Get)
	crops.DELETE("/:crop", h.Remove)
}

// List handles GET /api/fertilizer-prescription/user-crops.
//
// @Summary      List tracked crops
// @Tags         Tracked crops
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.TrackedCropsResponse} "Tracked crops"
// @Router       /api/fertilizer-prescription/user-crops [get]
func (h *TrackerHandler) List(c *gin.Context) {
	crops, summary := h.tracker.List()
	NewResponseBuilder(c).SuccessOK(dto.TrackedCropsResponse{Crops: crops, Summary: summary})
}

// Update handles POST /api/fertilizer-prescription/user-crops.
//
// @Summary      Replace tracked crops
// @Description  Replaces the tracked set with one to three supported crops and builds their recommendations. Soil and area default to the farm profile.
// @Tags         Tracked crops
// @Accept       json
// @Produce      json
// @Param        request body dto.TrackedCropsRequest true "Crops to track"
// @Success      200 {object} dto.SuccessResponse{data=dto.TrackedUpdateResponse} "Updated set and recommendations"
// @Failure      400 {object} dto.ErrorResponse "Invalid or unsupported crops"
// @Router       /api/fertilizer-prescription/user-crops [post]
func (h *TrackerHandler) Update(c *gin.Context) {
	req, err := BuildRequestAndValidate[dto.TrackedCropsRequest](c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	crops, err := h.tracker.Update(req.CropNames)
	if err != nil {
		middleware.AuditLogError(c, middleware.ActionUpdateTrackedCrops, "tracked crop update failed", err, nil)
		writeServiceError(c, err)
		return
	}

	soil, area := req.Resolve(h.reference.Snapshot().Farm())
	batch, err := h.tracker.Recommendations(c.Request.Context(), soil, area)
	if err != nil {
		middleware.AuditLogError(c, middleware.ActionUpdateTrackedCrops, "tracked crop recommendations failed", err, nil)
		writeServiceError(c, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionUpdateTrackedCrops, "tracked crops updated", map[string]interface{}{
		"crops": req.CropNames,
	})
	if batch.Degraded {
		middleware.MarkDegraded(c)
	}
	NewResponseBuilder(c).Success(http.StatusOK, dto.TrackedUpdateResponse{
		Crops:           crops,
		Recommendations: batch,
	}, i18n.SuccessKeyTrackedUpdated)
}

// Get handles GET /api/fertilizer-prescription/user-crops/:crop.
//
// @Summary      Stored recommendation for a tracked crop
// @Tags         Tracked crops
// @Produce      json
// @Param        crop path string true "Crop name"
// @Success      200 {object} dto.SuccessResponse{data=model.RecommendationResult} "Last recommendation"
// @Failure      404 {object} dto.ErrorResponse "Crop not tracked or no recommendation yet"
// @Router       /api/fertilizer-prescription/user-crops/{crop} [get]
func (h *TrackerHandler) Get(c *gin.Context) {
	result, err := h.tracker.Recommendation(c.Param("crop"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeResult(c, result, result.Degraded())
}

// Remove handles DELETE /api/fertilizer-prescription/user-crops/:crop.
//
// @Summary      Stop tracking a crop
// @Tags         Tracked crops
// @Produce      json
// @Param        crop path string true "Crop name"
// @Success      200 {object} dto.SuccessResponse{data=dto.TrackedCropsResponse} "Remaining crops"
// @Failure      404 {object} dto.ErrorResponse "Crop not tracked"
// @Router       /api/fertilizer-prescription/user-crops/{crop} [delete]
func (h *TrackerHandler) Remove(c *gin.Context) {
	name := c.Param("crop")
	if err := h.tracker.Remove(name); err != nil {
		writeServiceError(c, err)
		return
	}

	middleware.AuditLog(c, middleware.ActionRemoveTrackedCrop, "tracked crop removed", map[string]interface{}{"crop": name})
	crops, summary := h.tracker.List()
	NewResponseBuilder(c).Success(http.StatusOK, dto.TrackedCropsResponse{Crops: crops, Summary: summary}, i18n.SuccessKeyTrackedRemoved)
}
