package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
)

// CreateBankRequest defines the data needed to create a new bank.
type CreateBankRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateBankRequest defines the data allowed for updating a bank.
type UpdateBankRequest struct {
	Name string `json:"name" binding:"required"`
}

// BankResponse defines the data returned for a bank.
type BankResponse struct {
	BankID    int64     `json:"bankID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToBankResponse converts a domain.Bank to BankResponse DTO
func ToBankResponse(b *domain.Bank) BankResponse {
	return BankResponse{
		BankID:    b.BankID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToListBankResponse converts a slice of domain.Bank to a slice of BankResponse DTOs
func ToListBankResponse(banks []domain.Bank) []BankResponse {
	res := make([]BankResponse, len(banks))
	for i := range banks {
		res[i] = ToBankResponse(&banks[i])
	}
	return res
}
