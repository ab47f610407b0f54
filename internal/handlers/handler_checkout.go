package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/dto"
	"github.com/kavindus/autoparts_pos_app/internal/middleware"
)

// checkoutHandler handles HTTP requests for cart checkouts.
type checkoutHandler struct {
	checkoutService portssvc.CheckoutSvcFacade
}

func newCheckoutHandler(cs portssvc.CheckoutSvcFacade) *checkoutHandler {
	return &checkoutHandler{checkoutService: cs}
}

// registerCheckoutRoutes registers routes related to checkouts.
func registerCheckoutRoutes(rg *gin.RouterGroup, checkoutService portssvc.CheckoutSvcFacade) {
	h := newCheckoutHandler(checkoutService)

	rg.POST("/checkout", h.checkout)
}

// checkout godoc
// @Summary Process a cart checkout
// @Description Deducts stock, issues a reference number and persists the transaction atomically
// @Tags checkout
// @Accept  json
// @Produce  json
// @Param   checkout body dto.CheckoutRequest true "Cart contents"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 503 {object} map[string]string "Storage temporarily unavailable"
// @Security BearerAuth
// @Router /checkout [post]
func (h *checkoutHandler) checkout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for checkout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Cashier ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("cashier_id", cashierID), slog.String("location_id", req.LocationID))
	logger.Info("Received checkout request", slog.Int("line_count", len(req.Items)), slog.String("payment_method", req.PaymentMethod))

	txn, err := h.checkoutService.Checkout(c.Request.Context(), req, cashierID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error during checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unknown product or inventory in checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInsufficientStock) {
			logger.Warn("Insufficient stock during checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrStorageUnavailable) {
			logger.Error("Storage unavailable during checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		} else {
			logger.Error("Failed to process checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process checkout"})
		}
		return
	}

	logger.Info("Checkout completed", slog.String("reference_number", txn.ReferenceNumber), slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
