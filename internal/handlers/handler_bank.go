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

// bankHandler handles HTTP requests related to banks.
type bankHandler struct {
	bankService portssvc.BankSvcFacade
}

func newBankHandler(bs portssvc.BankSvcFacade) *bankHandler {
	return &bankHandler{bankService: bs}
}

// RegisterBankRoutes registers routes related to banks.
func RegisterBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	useJSONFieldNames()
	h := newBankHandler(bankService)

	banks := rg.Group("/banks")
	{
		banks.GET("", h.listBanks)
		banks.POST("", h.createBank)
		banks.GET("/:bank_id", h.getBank)
		banks.PUT("/:bank_id", h.updateBank)
		banks.PATCH("/:bank_id", h.updateBank)
		banks.DELETE("/:bank_id", h.deleteBank)
	}
}

// listBanks godoc
// @Summary List banks
// @Tags banks
// @Produce  json
// @Success 200 {array} dto.BankResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /banks [get]
func (h *bankHandler) listBanks(c *gin.Context) {
	banks, err := h.bankService.ListBanks(c.Request.Context())
	if err != nil {
		respondError(c, err, "list banks")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBankResponse(banks))
}

// createBank godoc
// @Summary Create a bank
// @Description Bank names are unique.
// @Tags banks
// @Accept  json
// @Produce  json
// @Param   bank body dto.CreateBankRequest true "Bank details"
// @Success 201 {object} dto.BankResponse
// @Failure 422 {object} dto.ErrorResponse "Missing name or name already taken"
// @Router /banks [post]
func (h *bankHandler) createBank(c *gin.Context) {
	var req dto.CreateBankRequest
	if !bindJSON(c, &req) {
		return
	}

	bank, err := h.bankService.CreateBank(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create bank")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bank created", slog.Int64("bank_id", bank.BankID))
	c.JSON(http.StatusCreated, dto.ToBankResponse(bank))
}

// getBank godoc
// @Summary Get a bank
// @Tags banks
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Success 200 {object} dto.BankResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /banks/{bank_id} [get]
func (h *bankHandler) getBank(c *gin.Context) {
	bankID, ok := pathID(c, "bank_id", "Bank")
	if !ok {
		return
	}

	bank, err := h.bankService.GetBankByID(c.Request.Context(), bankID)
	if err != nil {
		respondError(c, err, "get bank")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankResponse(bank))
}

// updateBank godoc
// @Summary Rename a bank
// @Tags banks
// @Accept  json
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Param   bank body dto.UpdateBankRequest true "Bank details"
// @Success 200 {object} dto.BankResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /banks/{bank_id} [put]
func (h *bankHandler) updateBank(c *gin.Context) {
	bankID, ok := pathID(c, "bank_id", "Bank")
	if !ok {
		return
	}
	var req dto.UpdateBankRequest
	if !bindJSON(c, &req) {
		return
	}

	bank, err := h.bankService.UpdateBank(c.Request.Context(), bankID, req)
	if err != nil {
		respondError(c, err, "update bank")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankResponse(bank))
}

// deleteBank godoc
// @Summary Delete a bank
// @Description Refused while the bank still has accounts. Returns the deleted bank.
// @Tags banks
// @Produce  json
// @Param   bank_id path int true "Bank ID"
// @Success 200 {object} dto.BankResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Bank has accounts"
// @Router /banks/{bank_id} [delete]
func (h *bankHandler) deleteBank(c *gin.Context) {
	bankID, ok := pathID(c, "bank_id", "Bank")
	if !ok {
		return
	}

	bank, err := h.bankService.DeleteBank(c.Request.Context(), bankID)
	if errors.Is(err, apperrors.ErrHasDependents) {
		respondErrors(c, http.StatusUnprocessableEntity, "Cannot delete record because dependent accounts exist")
		return
	}
	if err != nil {
		respondError(c, err, "delete bank")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bank deleted", slog.Int64("bank_id", bankID))
	c.JSON(http.StatusOK, dto.ToBankResponse(bank))
}
