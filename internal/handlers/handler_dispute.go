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

// disputeHandler handles refunds and warranty claims.
type disputeHandler struct {
	disputeService portssvc.DisputeSvcFacade
}

func newDisputeHandler(ds portssvc.DisputeSvcFacade) *disputeHandler {
	return &disputeHandler{disputeService: ds}
}

// registerDisputeRoutes registers routes related to disputes.
func registerDisputeRoutes(rg *gin.RouterGroup, disputeService portssvc.DisputeSvcFacade) {
	h := newDisputeHandler(disputeService)

	rg.POST("/disputes", h.createDispute)
}

// createDispute godoc
// @Summary Raise a refund or warranty claim
// @Description Records a dispute against an original sale; refunds restore stock, warranty claims do not
// @Tags disputes
// @Accept  json
// @Produce  json
// @Param   dispute body dto.DisputeRequest true "Dispute details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 404 {object} map[string]string "Original transaction not found"
// @Failure 422 {object} map[string]string "Original transaction is not a sale"
// @Security BearerAuth
// @Router /disputes [post]
func (h *disputeHandler) createDispute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for dispute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Cashier ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("cashier_id", cashierID), slog.String("original_bill", req.OriginalBillNumber))
	logger.Info("Received dispute request", slog.String("dispute_type", req.DisputeType))

	txn, err := h.disputeService.Dispute(c.Request.Context(), req, cashierID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error during dispute", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Original transaction not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Dispute target is not a sale-class transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrStorageUnavailable) {
			logger.Error("Storage unavailable during dispute", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		} else {
			logger.Error("Failed to process dispute", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process dispute"})
		}
		return
	}

	logger.Info("Dispute recorded", slog.String("reference_number", txn.ReferenceNumber), slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
