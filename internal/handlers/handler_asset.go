package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// assetHandler handles HTTP requests for fixed-asset disposals.
type assetHandler struct {
	assetService portssvc.AssetSvcFacade
}

func newAssetHandler(assetService portssvc.AssetSvcFacade) *assetHandler {
	return &assetHandler{assetService: assetService}
}

func (h *assetHandler) createDisposal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAssetDisposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDisposal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	disposal, err := h.assetService.CreateDisposal(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create asset disposal")
		return
	}

	logger.Info("Asset disposal created", slog.String("disposal_id", disposal.DisposalID), slog.String("asset_id", disposal.AssetID))
	c.JSON(http.StatusCreated, disposal)
}

func (h *assetHandler) postDisposalToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	disposalID := c.Param("disposalID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	disposal, err := h.assetService.PostDisposalToGL(c.Request.Context(), disposalID, userID)
	if err != nil {
		respondError(c, logger, err, "post asset disposal to GL")
		return
	}

	logger.Info("Asset disposal posted to GL", slog.String("disposal_id", disposalID))
	c.JSON(http.StatusOK, disposal)
}

// registerAssetRoutes registers asset disposal routes
func registerAssetRoutes(group *gin.RouterGroup, assetService portssvc.AssetSvcFacade) {
	h := newAssetHandler(assetService)

	assets := group.Group("/assets")
	{
		assets.POST("/disposals", h.createDisposal)
		assets.POST("/disposals/:disposalID/post-to-gl", h.postDisposalToGL)
	}
}
