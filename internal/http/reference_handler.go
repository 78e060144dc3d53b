package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/middleware"
	"github.com/guttosm/fertilizer-service/internal/reference"
)

// ReferenceStore is the reference data the handlers read and reload.
type ReferenceStore interface {
	Snapshot() *reference.Snapshot
	Reload() (*reference.Snapshot, error)
	Reloadable() bool
}

// ReferenceHandler serves the crop table, the fertilizer catalog and the farm
// profile.
type ReferenceHandler struct {
	store ReferenceStore
}

// NewReferenceHandler creates a ReferenceHandler.
func NewReferenceHandler(store ReferenceStore) *ReferenceHandler {
	return &ReferenceHandler{store: store}
}

// RegisterRoutes registers the reference endpoints. Reload is only exposed
// when the store reads from disk.
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/crops", h.ListCrops)
	rg.GET("/fertilizers", h.ListFertilizers)
	rg.GET("/farm", h.GetFarm)
	if h.store.Reloadable() {
		rg.POST("/reference/reload", h.Reload)
	}
}

// ListCrops handles GET /api/crops.
//
// @Summary      List supported crops
// @Description  Returns the crop table, optionally filtered by category (맥류, 벼류, 콩류, 서류, 채소류, 과수류, 특용작물, 사료작물, 화훼류).
// @Tags         Reference
// @Produce      json
// @Param        category query string false "Crop category"
// @Success      200 {object} dto.SuccessResponse{data=dto.CropsResponse} "Crop table"
// @Router       /api/crops [get]
func (h *ReferenceHandler) ListCrops(c *gin.Context) {
	table := h.store.Snapshot().Crops()

	crops := table.Crops()
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		crops = table.CropsByCategory(category)
	}
	if crops == nil {
		crops = []reference.Crop{}
	}

	NewResponseBuilder(c).SuccessOK(dto.CropsResponse{
		Total:      len(crops),
		Categories: table.Categories(),
		Crops:      crops,
	})
}

// ListFertilizers handles GET /api/fertilizers.
//
// @Summary      List fertilizer products
// @Description  Returns the fertilizer catalog, optionally restricted to one application phase.
// @Tags         Reference
// @Produce      json
// @Param        phase query string false "base or topdress" Enums(base, topdress)
// @Success      200 {object} dto.SuccessResponse{data=dto.FertilizersResponse} "Catalog"
// @Failure      400 {object} dto.ErrorResponse "Unknown phase"
// @Router       /api/fertilizers [get]
func (h *ReferenceHandler) ListFertilizers(c *gin.Context) {
	snap := h.store.Snapshot()

	raw := strings.TrimSpace(c.Query("phase"))
	if raw == "" {
		products := snap.Catalog()
		NewResponseBuilder(c).SuccessOK(dto.FertilizersResponse{Total: len(products), Fertilizers: products})
		return
	}

	phase, ok := model.ParsePhase(raw)
	if !ok {
		NewResponseBuilder(c).Error(http.StatusBadRequest, dto.ErrCodeInvalidInput, i18n.ErrKeyInvalidPhase, nil)
		return
	}
	products := snap.CatalogForPhase(phase)
	if products == nil {
		products = []model.FertilizerProduct{}
	}
	NewResponseBuilder(c).SuccessOK(dto.FertilizersResponse{
		Phase:       string(phase),
		Total:       len(products),
		Fertilizers: products,
	})
}

// GetFarm handles GET /api/farm.
//
// @Summary      Farm profile
// @Description  Returns the farm profile used as the default for soil and area.
// @Tags         Reference
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.FarmProfile} "Farm profile"
// @Router       /api/farm [get]
func (h *ReferenceHandler) GetFarm(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.store.Snapshot().Farm())
}

// Reload handles POST /api/reference/reload.
//
// @Summary      Reload reference data
// @Description  Re-reads the catalog and farm profile from disk and swaps them in. The previous data stays active when loading fails.
// @Tags         Reference
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.ReloadResponse} "Reloaded"
// @Failure      500 {object} dto.ErrorResponse "Reference files could not be loaded"
// @Router       /api/reference/reload [post]
func (h *ReferenceHandler) Reload(c *gin.Context) {
	snap, err := h.store.Reload()
	if err != nil {
		middleware.AuditLogError(c, middleware.ActionReloadReference, "reference reload failed", err, nil)
		NewResponseBuilder(c).ErrorWithMessage(http.StatusInternalServerError, dto.ErrCodeInternal, err.Error(), err)
		return
	}

	resp := dto.ReloadResponse{
		Source:      snap.Source(),
		Crops:       snap.Crops().Len(),
		Fertilizers: len(snap.Catalog()),
		LoadedAt:    snap.LoadedAt(),
	}
	middleware.AuditLog(c, middleware.ActionReloadReference, "reference data reloaded", map[string]interface{}{
		"source":      resp.Source,
		"fertilizers": resp.Fertilizers,
	})
	NewResponseBuilder(c).Success(http.StatusOK, resp, i18n.SuccessKeyReferenceReload)
}
