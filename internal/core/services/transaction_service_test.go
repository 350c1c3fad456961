package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/core/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	txnRepo     *MockTransactionRepository
	accountRepo *MockAccountRepository
	bankRepo    *MockBankRepository
	sink        *MockDuplicateEventSink
	service     portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.txnRepo = new(MockTransactionRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.bankRepo = new(MockBankRepository)
	suite.sink = new(MockDuplicateEventSink)
	engine := duplicates.NewEngine(time.Minute, duplicates.WithClock(fixedClock()))
	suite.service = services.NewTransactionService(suite.txnRepo, suite.accountRepo, suite.bankRepo, engine,
		services.WithDuplicateEventSink(suite.sink))
}

func (suite *TransactionServiceTestSuite) expectAccount(bankID, accountID int64) {
	suite.bankRepo.On("FindBankByID", suite.ctx, bankID).Return(&domain.Bank{BankID: bankID}, nil)
	suite.accountRepo.On("FindAccountByBankAndID", suite.ctx, bankID, accountID).
		Return(&domain.Account{AccountID: accountID, BankID: bankID}, nil)
}

// runResolver makes the mocked write call the resolver it was handed, using
// the mock repository as finder, and stamps the result on the returned record.
func (suite *TransactionServiceTestSuite) runResolver(saved *domain.Transaction) func(mock.Arguments) {
	return func(args mock.Arguments) {
		resolve := args.Get(2).(portsrepo.DuplicateResolver)
		group, err := resolve(suite.ctx, suite.txnRepo, args.Get(1).(domain.Transaction))
		suite.Require().NoError(err)
		saved.DuplicateGroup = group
	}
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NoDuplicates() {
	suite.expectAccount(1, 10)
	date := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	saved := &domain.Transaction{TransactionID: 100, BankID: 1, AccountID: 10, Amount: decimal.RequireFromString("12.5")}

	suite.txnRepo.On("FindRecentMatches", suite.ctx, mock.Anything, fixedNow.Add(-time.Minute), fixedNow).
		Return([]domain.MatchGroup{}, nil).Once()
	suite.txnRepo.On("CreateTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.BankID == 1 && t.AccountID == 10 &&
			t.Amount.Equal(decimal.RequireFromString("12.5")) &&
			t.Date.Equal(date) &&
			t.CreatedAt.Equal(fixedNow) && t.UpdatedAt.Equal(fixedNow)
	}), mock.Anything).Run(suite.runResolver(saved)).Return(saved, nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, 1, 10, dto.CreateTransactionRequest{
		Amount:      decPtr("12.5"),
		Description: strPtr("lunch"),
		Date:        &date,
	})

	suite.Require().NoError(err)
	suite.True(txn.DuplicateGroup.IsEmpty())
	suite.txnRepo.AssertExpectations(suite.T())
	suite.sink.AssertNotCalled(suite.T(), "DuplicateTransactionDetected", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DuplicatesAreReported() {
	suite.expectAccount(1, 10)
	date := fixedNow
	saved := &domain.Transaction{TransactionID: 103, BankID: 1, AccountID: 10, Amount: decimal.RequireFromString("30")}

	suite.txnRepo.On("FindRecentMatches", suite.ctx, mock.Anything, fixedNow.Add(-time.Minute), fixedNow).
		Return([]domain.MatchGroup{
			{Amount: decimal.RequireFromString("30"), Description: strPtr("cab"), IDs: []int64{101}},
			{Amount: decimal.RequireFromString("30.00"), Description: strPtr("taxi"), IDs: []int64{102, 99}},
		}, nil).Once()
	suite.txnRepo.On("CreateTransaction", suite.ctx, mock.Anything, mock.Anything).
		Run(suite.runResolver(saved)).Return(saved, nil).Once()
	suite.sink.On("DuplicateTransactionDetected", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.TransactionID == 103
	})).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, 1, 10, dto.CreateTransactionRequest{
		Amount:      decPtr("30.0"),
		Description: strPtr("taxi"),
		Date:        &date,
	})

	suite.Require().NoError(err)
	suite.Equal([]int64{99, 102}, txn.DuplicateGroup.IDs())
	suite.sink.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_MissingFields() {
	date := fixedNow

	_, err := suite.service.CreateTransaction(suite.ctx, 1, 10, dto.CreateTransactionRequest{Date: &date})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateTransaction(suite.ctx, 1, 10, dto.CreateTransactionRequest{Amount: decPtr("1")})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.bankRepo.AssertNotCalled(suite.T(), "FindBankByID", mock.Anything, mock.Anything)
	suite.txnRepo.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_AccountOutsideBank() {
	suite.bankRepo.On("FindBankByID", suite.ctx, int64(2)).Return(&domain.Bank{BankID: 2}, nil).Once()
	suite.accountRepo.On("FindAccountByBankAndID", suite.ctx, int64(2), int64(10)).
		Return(nil, apperrors.NotFound("Account")).Once()
	date := fixedNow

	_, err := suite.service.CreateTransaction(suite.ctx, 2, 10, dto.CreateTransactionRequest{Amount: decPtr("1"), Date: &date})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal("Account", apperrors.ModelName(err))
	suite.txnRepo.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_StorageFailure() {
	suite.expectAccount(1, 10)
	date := fixedNow
	boom := errors.New("disk gone")

	suite.txnRepo.On("FindRecentMatches", suite.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, boom).Once()
	suite.txnRepo.On("CreateTransaction", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			resolve := args.Get(2).(portsrepo.DuplicateResolver)
			_, err := resolve(suite.ctx, suite.txnRepo, args.Get(1).(domain.Transaction))
			suite.ErrorIs(err, apperrors.ErrStorageUnavailable)
		}).
		Return(nil, apperrors.NewAppError(503, "storage unavailable", apperrors.ErrStorageUnavailable)).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, 1, 10, dto.CreateTransactionRequest{Amount: decPtr("1"), Date: &date})

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrStorageUnavailable)
	suite.sink.AssertNotCalled(suite.T(), "DuplicateTransactionDetected", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_ResolvesFlags() {
	suite.expectAccount(1, 10)
	txns := []domain.Transaction{
		{TransactionID: 1, AccountID: 10},
		{TransactionID: 2, AccountID: 10, DuplicateGroup: domain.NewDuplicateGroup(1)},
		{TransactionID: 3, AccountID: 10, DuplicateGroup: domain.NewDuplicateGroup(1, 2, 50)},
	}
	suite.txnRepo.On("ListTransactionsByAccount", suite.ctx, int64(1), int64(10)).Return(txns, nil).Once()
	suite.txnRepo.On("FindTransactionsByIDs", suite.ctx, []int64{1, 2, 50}).
		Return(map[int64]domain.Transaction{1: txns[0], 2: txns[1]}, nil).Once()

	items, err := suite.service.ListTransactions(suite.ctx, 1, 10)

	suite.Require().NoError(err)
	suite.Require().Len(items, 3)
	suite.Empty(items[0].FlagTransactions)
	suite.NotNil(items[0].FlagTransactions)
	suite.Require().Len(items[1].FlagTransactions, 1)
	suite.Equal(int64(1), items[1].FlagTransactions[0].TransactionID)
	suite.Require().Len(items[2].FlagTransactions, 2, "id 50 no longer exists and is skipped")
	suite.Equal(int64(1), items[2].FlagTransactions[0].TransactionID)
	suite.Equal(int64(2), items[2].FlagTransactions[1].TransactionID)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_KeepsOmittedFields() {
	suite.expectAccount(1, 10)
	created := fixedNow.Add(-time.Hour)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Transaction{
		TransactionID: 5, BankID: 1, AccountID: 10,
		Amount:      decimal.RequireFromString("3"),
		Description: strPtr("coffee"),
		Date:        date,
		AuditFields: domain.AuditFields{CreatedAt: created, UpdatedAt: created},
	}
	suite.txnRepo.On("FindTransactionByID", suite.ctx, int64(1), int64(10), int64(5)).Return(existing, nil).Once()
	suite.txnRepo.On("UpdateTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.TransactionID == 5 &&
			t.Amount.Equal(decimal.RequireFromString("4")) &&
			t.DescriptionValue() == "coffee" &&
			t.Date.Equal(date) &&
			t.CreatedAt.Equal(created) && t.UpdatedAt.Equal(fixedNow)
	}), mock.Anything).Return(existing, nil).Once()

	_, err := suite.service.UpdateTransaction(suite.ctx, 1, 10, 5, dto.UpdateTransactionRequest{Amount: decPtr("4")})

	suite.Require().NoError(err)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_AmountRequired() {
	_, err := suite.service.UpdateTransaction(suite.ctx, 1, 10, 5, dto.UpdateTransactionRequest{Description: strPtr("x")})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.txnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReturnsDeletedRecord() {
	suite.expectAccount(1, 10)
	existing := &domain.Transaction{TransactionID: 5, BankID: 1, AccountID: 10}
	suite.txnRepo.On("FindTransactionByID", suite.ctx, int64(1), int64(10), int64(5)).Return(existing, nil).Once()
	suite.txnRepo.On("DeleteTransaction", suite.ctx, int64(1), int64(10), int64(5)).Return(nil).Once()

	txn, err := suite.service.DeleteTransaction(suite.ctx, 1, 10, 5)

	suite.Require().NoError(err)
	suite.Equal(existing, txn)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestGetTransaction_NotFound() {
	suite.expectAccount(1, 10)
	suite.txnRepo.On("FindTransactionByID", suite.ctx, int64(1), int64(10), int64(404)).
		Return(nil, apperrors.NotFound("Transaction")).Once()

	_, err := suite.service.GetTransactionByID(suite.ctx, 1, 10, 404)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal("Transaction", apperrors.ModelName(err))
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
