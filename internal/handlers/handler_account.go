package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/SscSPs/bank_ledger_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// RegisterAccountRoutes registers account routes under a group that carries :bank_id.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	useJSONFieldNames()
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PUT("/:account_id", h.updateAccount)
		accounts.PATCH("/:account_id", h.updateAccount)
		accounts.DELETE("/:account_id", h.deleteAccount)
		accounts.GET("/:account_id/amount", h.getAccountAmount)
	}
}

// bankAndAccountIDs reads both route ids, answering 404 for the first bad one.
func bankAndAccountIDs(c *gin.Context) (bankID, accountID int64, ok bool) {
	if bankID, ok = pathID(c, "bank_id", "Bank"); !ok {
		return 0, 0, false
	}
	if accountID, ok = pathID(c, "account_id", "Account"); !ok {
		return 0, 0, false
	}
	return bankID, accountID, true
}

// listAccounts godoc
// @Summary List a bank's accounts
// @Tags accounts
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	bankID, ok := pathID(c, "bank_id", "Bank")
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), bankID)
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// createAccount godoc
// @Summary Create an account
// @Description Account names are unique.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	bankID, ok := pathID(c, "bank_id", "Bank")
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), bankID, req)
	if err != nil {
		respondError(c, err, "create account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created",
		slog.Int64("bank_id", bankID), slog.Int64("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	bankID, accountID, ok := bankAndAccountIDs(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), bankID, accountID)
	if err != nil {
		respondError(c, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Rename an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	bankID, accountID, ok := bankAndAccountIDs(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), bankID, accountID, req)
	if err != nil {
		respondError(c, err, "update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Refused while the account still has transactions. Returns the deleted account.
// @Tags accounts
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Account has transactions"
// @Router /banks/{bank_id}/accounts/{account_id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	bankID, accountID, ok := bankAndAccountIDs(c)
	if !ok {
		return
	}

	account, err := h.accountService.DeleteAccount(c.Request.Context(), bankID, accountID)
	if errors.Is(err, apperrors.ErrHasDependents) {
		respondErrors(c, http.StatusUnprocessableEntity, "Cannot delete record because dependent transactions exist")
		return
	}
	if err != nil {
		respondError(c, err, "delete account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountAmount godoc
// @Summary Sum an account's transactions
// @Description Returns 0 for an account without transactions.
// @Tags accounts
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   account_id path int true "Account ID"
// @Success 200 {object} dto.AccountAmountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id}/accounts/{account_id}/amount [get]
func (h *accountHandler) getAccountAmount(c *gin.Context) {
	bankID, accountID, ok := bankAndAccountIDs(c)
	if !ok {
		return
	}

	amount, err := h.accountService.GetAccountAmount(c.Request.Context(), bankID, accountID)
	if err != nil {
		respondError(c, err, "calculate account amount")
		return
	}
	c.JSON(http.StatusOK, dto.AccountAmountResponse{AccountID: accountID, Amount: amount})
}
