package services

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// ListTransactions retrieves an account's transactions, each with its duplicates resolved.
	ListTransactions(ctx context.Context, bankID int64, accountID int64) ([]domain.FlaggedTransaction, error)

	// GetTransactionByID retrieves a transaction scoped to its bank and account.
	GetTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// CreateTransaction records a transaction and stamps its duplicate group.
	CreateTransaction(ctx context.Context, bankID int64, accountID int64, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction changes a transaction and re-stamps its duplicate group.
	UpdateTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and returns the removed record.
	DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// DuplicateEventSink is notified whenever a saved transaction has a non-empty duplicate group.
type DuplicateEventSink interface {
	DuplicateTransactionDetected(ctx context.Context, txn domain.Transaction)
}
