package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/dto"
	"github.com/kavindus/autoparts_pos_app/internal/middleware"
)

// transactionHandler is the read-only transaction lookup surface.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to transaction lookups.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:referenceNumber", h.getTransaction)
	}
}

// getTransaction godoc
// @Summary Get a transaction by reference number
// @Tags transactions
// @Produce  json
// @Param   referenceNumber path string true "Reference number"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{referenceNumber} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	referenceNumber := c.Param("referenceNumber")

	txn, err := h.transactionService.GetByReferenceNumber(c.Request.Context(), referenceNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to fetch transaction", slog.String("reference_number", referenceNumber), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions for a location
// @Tags transactions
// @Produce  json
// @Param   locationID query string true "Location ID"
// @Param   since query string false "RFC3339 lower bound on createdAt"
// @Param   limit query int false "Max rows, default 20"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Missing or invalid query parameters"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	locationID := c.Query("locationID")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locationID query parameter is required"})
		return
	}

	var since time.Time
	if sinceStr := c.Query("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC3339 timestamp"})
			return
		}
		since = parsed
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	txns, err := h.transactionService.ListByLocation(c.Request.Context(), locationID, since, limit)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("location_id", locationID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
