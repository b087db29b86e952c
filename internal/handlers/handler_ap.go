package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/middleware"
)

// apHandler handles HTTP requests for the vendor payable subledger.
type apHandler struct {
	apService portssvc.ApSvcFacade
}

func newApHandler(apService portssvc.ApSvcFacade) *apHandler {
	return &apHandler{apService: apService}
}

func (h *apHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateApInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	invoice, err := h.apService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create vendor invoice")
		return
	}

	logger.Info("Vendor invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("vendor_id", invoice.VendorID))
	c.JSON(http.StatusCreated, invoice)
}

func (h *apHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, err := h.apService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger, err, "retrieve vendor invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *apHandler) postInvoiceToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	invoice, err := h.apService.PostInvoiceToGL(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, logger, err, "post vendor invoice to GL")
		return
	}

	logger.Info("Vendor invoice posted to GL", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, invoice)
}

func (h *apHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateApPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	payment, err := h.apService.CreatePayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "record vendor payment")
		return
	}

	logger.Info("Vendor payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("vendor_id", payment.VendorID))
	c.JSON(http.StatusCreated, payment)
}

func (h *apHandler) postPaymentToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := callerIdentity(c, logger)
	if !ok {
		return
	}

	payment, err := h.apService.PostPaymentToGL(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondError(c, logger, err, "post vendor payment to GL")
		return
	}

	logger.Info("Vendor payment posted to GL", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, payment)
}

// registerApRoutes registers vendor payable subledger routes
func registerApRoutes(group *gin.RouterGroup, apService portssvc.ApSvcFacade) {
	h := newApHandler(apService)

	ap := group.Group("/ap")
	{
		ap.POST("/invoices", h.createInvoice)
		ap.GET("/invoices/:invoiceID", h.getInvoice)
		ap.POST("/invoices/:invoiceID/post-to-gl", h.postInvoiceToGL)
		ap.POST("/payments", h.createPayment)
		ap.POST("/payments/:paymentID/post-to-gl", h.postPaymentToGL)
	}
}
