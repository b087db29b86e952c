package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// fiscalPeriodHandler handles HTTP requests for fiscal period management.
type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func newFiscalPeriodHandler(periodService portssvc.FiscalPeriodSvcFacade) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{periodService: periodService}
}

func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create fiscal period")
		return
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	c.JSON(http.StatusCreated, period)
}

func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.ClosePeriod(c.Request.Context(), periodID, userID)
	if err != nil {
		respondError(c, logger, err, "close fiscal period")
		return
	}

	logger.Info("Fiscal period closed", slog.String("period_id", periodID), slog.String("closed_by", userID))
	c.JSON(http.StatusOK, period)
}

func (h *fiscalPeriodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), periodID, userID)
	if err != nil {
		respondError(c, logger, err, "reopen fiscal period")
		return
	}

	logger.Info("Fiscal period reopened", slog.String("period_id", periodID), slog.String("reopened_by", userID))
	c.JSON(http.StatusOK, period)
}

// registerFiscalPeriodRoutes registers fiscal period routes
func registerFiscalPeriodRoutes(group *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := newFiscalPeriodHandler(periodService)

	periods := group.Group("/fiscal-periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}
