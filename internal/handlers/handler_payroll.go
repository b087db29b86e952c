package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// payrollHandler handles HTTP requests for payroll runs.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func newPayrollHandler(payrollService portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: payrollService}
}

func (h *payrollHandler) createRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.CreateRun(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create payroll run")
		return
	}

	logger.Info("Payroll run created", slog.String("run_id", run.RunID))
	c.JSON(http.StatusCreated, run)
}

func (h *payrollHandler) getRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	run, err := h.payrollService.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondError(c, logger, err, "retrieve payroll run")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *payrollHandler) postRunToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.PostRunToGL(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "post payroll run to GL")
		return
	}

	logger.Info("Payroll run posted to GL", slog.String("run_id", runID))
	c.JSON(http.StatusOK, run)
}

// registerPayrollRoutes registers payroll subledger routes
func registerPayrollRoutes(group *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(payrollService)

	payroll := group.Group("/payroll")
	{
		payroll.POST("/runs", h.createRun)
		payroll.GET("/runs/:runID", h.getRun)
		payroll.POST("/runs/:runID/post-to-gl", h.postRunToGL)
	}
}
