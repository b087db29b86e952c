package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// billingHandler handles HTTP requests for student bill calculation.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newBillingHandler(billingService portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingService: billingService}
}

func (h *billingHandler) calculateBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	calculation, err := h.billingService.CalculateStudentBill(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, logger, err, "calculate student bill")
		return
	}

	logger.Debug("Student bill calculated", slog.String("student_id", studentID))
	c.JSON(200, calculation)
}

// registerBillingRoutes registers bill calculation routes
func registerBillingRoutes(group *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService)
	group.GET("/students/:studentID/bill", h.calculateBill)
}
