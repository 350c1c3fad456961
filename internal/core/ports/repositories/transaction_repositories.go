package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecentMatchFinder is the read-only query capability the duplicate engine depends on.
type RecentMatchFinder interface {
	// FindRecentMatches returns persisted transactions with the given amount whose created_at
	// lies within [windowStart, windowEnd], bucketed by (amount, description).
	FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error)
}

// DuplicateResolver computes the duplicate group for a transaction that is about to be written.
// Repositories call it inside their write unit, after the grouping-key lock is held and
// before the row is written, passing a finder bound to that same unit.
type DuplicateResolver func(ctx context.Context, finder RecentMatchFinder, txn domain.Transaction) (domain.DuplicateGroup, error)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// ListTransactionsByAccount retrieves all transactions on an account ordered by ID.
	ListTransactionsByAccount(ctx context.Context, bankID int64, accountID int64) ([]domain.Transaction, error)

	// FindTransactionByID retrieves a transaction scoped to its bank and account.
	FindTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error)

	// FindTransactionsByIDs retrieves transactions by ID regardless of owner. Missing IDs are skipped.
	FindTransactionsByIDs(ctx context.Context, transactionIDs []int64) (map[int64]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// CreateTransaction stamps the duplicate group via resolve and inserts the row atomically.
	// The returned transaction carries its assigned ID.
	CreateTransaction(ctx context.Context, txn domain.Transaction, resolve DuplicateResolver) (*domain.Transaction, error)

	// UpdateTransaction re-stamps the duplicate group via resolve and updates amount, description,
	// date and updated_at atomically.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, resolve DuplicateResolver) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction scoped to its bank and account.
	DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	RecentMatchFinder
}
