package handlers_test

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock BankService ---
type MockBankService struct {
	mock.Mock
}

func (m *MockBankService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bank), args.Error(1)
}
func (m *MockBankService) GetBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}
func (m *MockBankService) CreateBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}
func (m *MockBankService) UpdateBank(ctx context.Context, bankID int64, req dto.UpdateBankRequest) (*domain.Bank, error) {
	args := m.Called(ctx, bankID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}
func (m *MockBankService) DeleteBank(ctx context.Context, bankID int64) (*domain.Bank, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context, bankID int64) ([]domain.Account, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, bankID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, bankID int64, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, bankID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, bankID int64, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, bankID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, bankID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountAmount(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, bankID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, bankID int64, accountID int64) ([]domain.FlaggedTransaction, error) {
	args := m.Called(ctx, bankID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlaggedTransaction), args.Error(1)
}
func (m *MockTransactionService) GetTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, bankID, accountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) CreateTransaction(ctx context.Context, bankID int64, accountID int64, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, bankID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) UpdateTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, bankID, accountID, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, bankID, accountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.BankSvcFacade        = (*MockBankService)(nil)
	_ portssvc.AccountSvcFacade     = (*MockAccountService)(nil)
	_ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)
)
