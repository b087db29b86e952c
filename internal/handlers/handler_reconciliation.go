package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// reconciliationHandler handles HTTP requests for GL reconciliations.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(reconService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconService: reconService}
}

func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	recon, err := h.reconService.CreateReconciliation(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create reconciliation")
		return
	}

	logger.Info("Reconciliation created",
		slog.String("reconciliation_id", recon.ReconciliationID),
		slog.String("account_id", recon.AccountID))
	c.JSON(http.StatusCreated, recon)
}

func (h *reconciliationHandler) toggleItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconID := c.Param("reconID")
	txnID := c.Param("txnID")

	var req dto.ToggleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for toggleItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	if err := h.reconService.MarkTransactionCleared(c.Request.Context(), reconID, txnID, *req.IsCleared, userID); err != nil {
		respondError(c, logger, err, "toggle reconciliation item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciliationID": reconID, "transactionID": txnID, "isCleared": *req.IsCleared})
}

func (h *reconciliationHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconID := c.Param("reconID")

	summary, err := h.reconService.GetReconciliationSummary(c.Request.Context(), reconID)
	if err != nil {
		respondError(c, logger, err, "retrieve reconciliation summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *reconciliationHandler) complete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconID := c.Param("reconID")

	var req dto.CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for complete", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	recon, err := h.reconService.CompleteReconciliation(c.Request.Context(), reconID, req.Note, userID)
	if err != nil {
		respondError(c, logger, err, "complete reconciliation")
		return
	}

	logger.Info("Reconciliation completed", slog.String("reconciliation_id", reconID))
	c.JSON(http.StatusOK, recon)
}

// registerReconciliationRoutes registers GL reconciliation routes
func registerReconciliationRoutes(group *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconService)

	recons := group.Group("/gl/reconciliations")
	{
		recons.POST("", h.createReconciliation)
		recons.POST("/:reconID/items/:txnID/toggle", h.toggleItem)
		recons.GET("/:reconID/summary", h.getSummary)
		recons.POST("/:reconID/complete", h.complete)
	}
}
