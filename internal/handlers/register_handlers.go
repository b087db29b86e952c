package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuscore/finance_backend/internal/apperrors"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.CallerIdentityMiddleware())

	registerAccountRoutes(v1, services.Account)
	registerFiscalPeriodRoutes(v1, services.FiscalPeriod)
	registerJournalRoutes(v1, services.Journal)
	registerArRoutes(v1, services.Ar)
	registerApRoutes(v1, services.Ap)
	registerPayrollRoutes(v1, services.Payroll)
	registerAssetRoutes(v1, services.Asset)
	registerReconciliationRoutes(v1, services.Reconciliation)
	registerBillingRoutes(v1, services.Billing)
	registerReportingRoutes(v1, services.Reporting)
}

// respondError maps service errors to HTTP status codes. Unknown errors get a
// generic 500 so infrastructure details never leak to clients.
func respondError(c *gin.Context, logger *slog.Logger, err error, operation string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrImbalancedEntry):
		logger.Warn("Validation error", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPeriodClosed):
		logger.Warn("Fiscal period closed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("State conflict", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + operation})
	}
}

// callerIdentity pulls the authenticated caller out of the request, rejecting
// the request when the identity middleware did not run.
func callerIdentity(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
