package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// arHandler handles HTTP requests for the student billing subledger.
type arHandler struct {
	arService portssvc.ArSvcFacade
}

func newArHandler(arService portssvc.ArSvcFacade) *arHandler {
	return &arHandler{arService: arService}
}

func (h *arHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	bill, err := h.arService.CreateBill(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create student bill")
		return
	}

	logger.Info("Student bill created", slog.String("bill_id", bill.BillID), slog.String("student_id", bill.StudentID))
	c.JSON(http.StatusCreated, bill)
}

func (h *arHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("billID")

	bill, err := h.arService.GetBill(c.Request.Context(), billID)
	if err != nil {
		respondError(c, logger, err, "retrieve student bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *arHandler) postBillToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("billID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	bill, err := h.arService.PostBillToGL(c.Request.Context(), billID, userID)
	if err != nil {
		respondError(c, logger, err, "post student bill to GL")
		return
	}

	logger.Info("Student bill posted to GL", slog.String("bill_id", billID))
	c.JSON(http.StatusOK, bill)
}

func (h *arHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateArPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	payment, err := h.arService.CreatePayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "record student payment")
		return
	}

	logger.Info("Student payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("student_id", payment.StudentID))
	c.JSON(http.StatusCreated, payment)
}

func (h *arHandler) postPaymentToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	payment, err := h.arService.PostPaymentToGL(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondError(c, logger, err, "post student payment to GL")
		return
	}

	logger.Info("Student payment posted to GL", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, payment)
}

// registerArRoutes registers student billing subledger routes
func registerArRoutes(group *gin.RouterGroup, arService portssvc.ArSvcFacade) {
	h := newArHandler(arService)

	ar := group.Group("/ar")
	{
		ar.POST("/bills", h.createBill)
		ar.GET("/bills/:billID", h.getBill)
		ar.POST("/bills/:billID/post-to-gl", h.postBillToGL)
		ar.POST("/payments", h.createPayment)
		ar.POST("/payments/:paymentID/post-to-gl", h.postPaymentToGL)
	}
}
