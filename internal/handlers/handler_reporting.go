package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periodID := c.Query("periodId")
	if periodID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periodId query parameter is required"})
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), periodID)
	if err != nil {
		respondError(c, logger, err, "build trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := dto.ParseDate(c.Query("asOfDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOfDate must be a valid YYYY-MM-DD date"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := dto.ParseDate(c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be a valid YYYY-MM-DD date"})
		return
	}
	to, err := dto.ParseDate(c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be a valid YYYY-MM-DD date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not precede startDate"})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "build income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// registerReportingRoutes registers financial report routes
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
	}
}
