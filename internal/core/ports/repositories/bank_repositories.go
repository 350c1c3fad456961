package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
)

// BankReader defines read operations for bank data
type BankReader interface {
	// ListBanks retrieves every bank ordered by ID.
	ListBanks(ctx context.Context) ([]domain.Bank, error)

	// FindBankByID retrieves a specific bank by its unique identifier.
	FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error)
}

// BankWriter defines write operations for bank data
type BankWriter interface {
	// SaveBank persists a new bank and returns it with its assigned ID.
	SaveBank(ctx context.Context, bank domain.Bank) (*domain.Bank, error)

	// UpdateBank updates an existing bank's name.
	UpdateBank(ctx context.Context, bank domain.Bank) error

	// DeleteBank removes a bank. It fails with apperrors.ErrHasDependents while accounts reference it.
	DeleteBank(ctx context.Context, bankID int64) error
}

// BankRepositoryFacade combines all bank-related repository interfaces
type BankRepositoryFacade interface {
	BankReader
	BankWriter
}
