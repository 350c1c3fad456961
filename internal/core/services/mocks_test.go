package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBankRepository is a mock type for the BankRepositoryFacade interface
type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bank), args.Error(1)
}

func (m *MockBankRepository) FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankRepository) SaveBank(ctx context.Context, bank domain.Bank) (*domain.Bank, error) {
	args := m.Called(ctx, bank)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankRepository) UpdateBank(ctx context.Context, bank domain.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockBankRepository) DeleteBank(ctx context.Context, bankID int64) error {
	args := m.Called(ctx, bankID)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) ListAccountsByBank(ctx context.Context, bankID int64) ([]domain.Account, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByBankAndID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, bankID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, bankID int64, accountID int64) error {
	args := m.Called(ctx, bankID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) SumTransactionAmounts(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, bankID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, bankID int64, accountID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, bankID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, bankID, accountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByIDs(ctx context.Context, transactionIDs []int64) (map[int64]domain.Transaction, error) {
	args := m.Called(ctx, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	args := m.Called(ctx, txn, resolve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	args := m.Called(ctx, txn, resolve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) error {
	args := m.Called(ctx, bankID, accountID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	args := m.Called(ctx, amount, windowStart, windowEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchGroup), args.Error(1)
}

// MockDuplicateEventSink records duplicate notifications
type MockDuplicateEventSink struct {
	mock.Mock
}

func (m *MockDuplicateEventSink) DuplicateTransactionDetected(ctx context.Context, txn domain.Transaction) {
	m.Called(ctx, txn)
}

var (
	_ portsrepo.BankRepositoryFacade        = (*MockBankRepository)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*MockAccountRepository)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)
)
