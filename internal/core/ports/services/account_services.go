package services

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// ListAccounts retrieves the accounts owned by a bank.
	ListAccounts(ctx context.Context, bankID int64) ([]domain.Account, error)

	// GetAccountByID retrieves an account only if the given bank owns it.
	GetAccountByID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account under a bank.
	CreateAccount(ctx context.Context, bankID int64, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount renames an existing account.
	UpdateAccount(ctx context.Context, bankID int64, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account that owns no transactions and returns the removed record.
	DeleteAccount(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error)
}

// AccountCalculatorSvc defines calculation operations for account data
type AccountCalculatorSvc interface {
	// GetAccountAmount sums the amounts of every transaction on the account.
	GetAccountAmount(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCalculatorSvc
}
