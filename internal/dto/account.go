package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// The owning bank comes from the route.
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
type UpdateAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID int64     `json:"accountID"`
	BankID    int64     `json:"bankID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		BankID:    acc.BankID,
		Name:      acc.Name,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// AccountAmountResponse defines the data returned for an account amount query.
// Amount is the sum of every transaction amount on the account.
type AccountAmountResponse struct {
	AccountID int64           `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
}
