package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/SscSPs/bank_ledger_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// RegisterTransactionRoutes registers transaction routes under a group that
// carries :bank_id and :account_id.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	useJSONFieldNames()
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.POST("", h.createTransaction)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.PUT("/:transaction_id", h.updateTransaction)
		txns.PATCH("/:transaction_id", h.updateTransaction)
		txns.DELETE("/:transaction_id", h.deleteTransaction)
	}
}

func transactionRouteIDs(c *gin.Context) (bankID, accountID, transactionID int64, ok bool) {
	if bankID, accountID, ok = bankAndAccountIDs(c); !ok {
		return 0, 0, 0, false
	}
	if transactionID, ok = pathID(c, "transaction_id", "Transaction"); !ok {
		return 0, 0, 0, false
	}
	return bankID, accountID, transactionID, true
}

func logDuplicates(c *gin.Context, resp dto.TransactionResponse) {
	if len(resp.DuplicateIDs) == 0 {
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction saved with duplicates",
		slog.Int64("transaction_id", resp.TransactionID),
		slog.Any("duplicate_ids", resp.DuplicateIDs))
}

// listTransactions godoc
// @Summary List an account's transactions
// @Description Each transaction carries flagTransactions, the stored records of its duplicate group.
// @Tags transactions
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Success 200 {array} dto.FlaggedTransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	bankID, accountID, ok := bankAndAccountIDs(c)
	if !ok {
		return
	}

	items, err := h.transactionService.ListTransactions(c.Request.Context(), bankID, accountID)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(items))
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Transactions with the same amount and description saved within the duplicate window are listed in duplicateIDs.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	bankID, accountID, ok := bankAndAccountIDs(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), bankID, accountID, req)
	if err != nil {
		respondError(c, err, "create transaction")
		return
	}

	resp := dto.ToTransactionResponse(txn)
	logDuplicates(c, resp)
	c.JSON(http.StatusCreated, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Param   transaction_id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	bankID, accountID, transactionID, ok := transactionRouteIDs(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), bankID, accountID, transactionID)
	if err != nil {
		respondError(c, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Amount is required. The duplicate group is recomputed, excluding the transaction itself.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Param   transaction_id path int true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Transaction details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id}/transactions/{transaction_id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	bankID, accountID, transactionID, ok := transactionRouteIDs(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), bankID, accountID, transactionID, req)
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}

	resp := dto.ToTransactionResponse(txn)
	logDuplicates(c, resp)
	c.JSON(http.StatusOK, resp)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Returns the deleted transaction. Duplicate groups of other transactions are left unchanged.
// @Tags transactions
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Param   transaction_id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	bankID, accountID, transactionID, ok := transactionRouteIDs(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.DeleteTransaction(c.Request.Context(), bankID, accountID, transactionID)
	if err != nil {
		respondError(c, err, "delete transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
