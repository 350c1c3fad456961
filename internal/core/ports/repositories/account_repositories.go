package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// ListAccountsByBank retrieves all accounts owned by a bank.
	ListAccountsByBank(ctx context.Context, bankID int64) ([]domain.Account, error)

	// FindAccountByBankAndID retrieves an account only if it is owned by the given bank.
	FindAccountByBankAndID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and returns it with its assigned ID.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// UpdateAccount updates an existing account's name.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. It fails with apperrors.ErrHasDependents while transactions reference it.
	DeleteAccount(ctx context.Context, bankID int64, accountID int64) error
}

// AccountCalculator defines aggregate queries over an account's transactions
type AccountCalculator interface {
	// SumTransactionAmounts returns the sum of all transaction amounts on the account (zero when none).
	SumTransactionAmounts(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountCalculator
}
