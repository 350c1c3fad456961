package services

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
)

// BankReaderSvc defines read operations for bank data
type BankReaderSvc interface {
	// ListBanks retrieves every bank.
	ListBanks(ctx context.Context) ([]domain.Bank, error)

	// GetBankByID retrieves a specific bank by its unique identifier.
	GetBankByID(ctx context.Context, bankID int64) (*domain.Bank, error)
}

// BankWriterSvc defines write operations for bank data
type BankWriterSvc interface {
	// CreateBank persists a new bank.
	CreateBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error)

	// UpdateBank renames an existing bank.
	UpdateBank(ctx context.Context, bankID int64, req dto.UpdateBankRequest) (*domain.Bank, error)

	// DeleteBank removes a bank that owns no accounts and returns the removed record.
	DeleteBank(ctx context.Context, bankID int64) (*domain.Bank, error)
}

// BankSvcFacade combines all bank-related service interfaces
type BankSvcFacade interface {
	BankReaderSvc
	BankWriterSvc
}
