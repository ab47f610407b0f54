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

// settlementHandler settles deferred transactions.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// registerSettlementRoutes registers routes related to settlements.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	rg.POST("/settlements", h.settle)
}

// settle godoc
// @Summary Settle an on-hold or credit transaction
// @Description Records the paid counterpart of an ON_HOLD or CREDIT transaction; each original settles at most once
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   settlement body dto.SettlementRequest true "Settlement details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 404 {object} map[string]string "Original transaction not found"
// @Failure 409 {object} map[string]string "Transaction already settled"
// @Failure 422 {object} map[string]string "Transaction type is not settleable"
// @Security BearerAuth
// @Router /settlements [post]
func (h *settlementHandler) settle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Cashier ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("cashier_id", cashierID), slog.String("reference_number", req.ReferenceNumber))
	logger.Info("Received settlement request", slog.String("payment_method", req.PaymentMethod))

	txn, err := h.settlementService.Settle(c.Request.Context(), req, cashierID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error during settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction to settle not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrAlreadySettled) {
			logger.Warn("Transaction already settled", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Transaction type is not settleable", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrStorageUnavailable) {
			logger.Error("Storage unavailable during settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		} else {
			logger.Error("Failed to process settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process settlement"})
		}
		return
	}

	logger.Info("Settlement recorded", slog.String("settlement_reference", txn.ReferenceNumber), slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
