package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
)

type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
	bankRepo    portsrepo.BankReader
	engine      *duplicates.Engine
	events      portssvc.DuplicateEventSink
}

// TransactionServiceOption configures the transaction service
type TransactionServiceOption func(*transactionService)

// WithDuplicateEventSink reports every save that found duplicates to sink
func WithDuplicateEventSink(sink portssvc.DuplicateEventSink) TransactionServiceOption {
	return func(s *transactionService) {
		s.events = sink
	}
}

// NewTransactionService creates a new transaction service.
// Audit timestamps come from the engine's clock so created_at and the
// duplicate window are measured against the same time source.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	bankRepo portsrepo.BankReader,
	engine *duplicates.Engine,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		BaseService: BaseService{Clock: engine},
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		bankRepo:    bankRepo,
		engine:      engine,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// findAccount resolves the route's bank and account, in that order.
func (s *transactionService) findAccount(ctx context.Context, bankID, accountID int64) (*domain.Account, error) {
	if _, err := s.bankRepo.FindBankByID(ctx, bankID); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountByBankAndID(ctx, bankID, accountID)
}

func (s *transactionService) ListTransactions(ctx context.Context, bankID int64, accountID int64) ([]domain.FlaggedTransaction, error) {
	if _, err := s.findAccount(ctx, bankID, accountID); err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, bankID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("account_id", accountID))
		return nil, err
	}

	var flaggedIDs []int64
	for _, t := range txns {
		flaggedIDs = append(flaggedIDs, t.DuplicateGroup.IDs()...)
	}
	flagged, err := s.txnRepo.FindTransactionsByIDs(ctx, domain.NewDuplicateGroup(flaggedIDs...).IDs())
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve flagged transactions", slog.Int64("account_id", accountID))
		return nil, err
	}

	items := make([]domain.FlaggedTransaction, len(txns))
	for i, t := range txns {
		items[i].Transaction = t
		items[i].FlagTransactions = []domain.Transaction{}
		for _, id := range t.DuplicateGroup.IDs() {
			if member, ok := flagged[id]; ok {
				items[i].FlagTransactions = append(items[i].FlagTransactions, member)
			}
		}
	}
	return items, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	if _, err := s.findAccount(ctx, bankID, accountID); err != nil {
		return nil, err
	}
	return s.txnRepo.FindTransactionByID(ctx, bankID, accountID, transactionID)
}

func (s *transactionService) CreateTransaction(ctx context.Context, bankID int64, accountID int64, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount == nil {
		return nil, apperrors.Validation("param is missing or the value is empty: amount")
	}
	if req.Date == nil {
		return nil, apperrors.Validation("param is missing or the value is empty: date")
	}

	account, err := s.findAccount(ctx, bankID, accountID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		BankID:      account.BankID,
		AccountID:   account.AccountID,
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        req.Date.UTC(),
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}

	saved, err := s.txnRepo.CreateTransaction(ctx, txn, s.engine.Resolve)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.Int64("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.Int64("transaction_id", saved.TransactionID),
		slog.Int("duplicates", saved.DuplicateGroup.Len()))
	s.reportDuplicates(ctx, *saved)
	return saved, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount == nil {
		return nil, apperrors.Validation("param is missing or the value is empty: amount")
	}

	existing, err := s.GetTransactionByID(ctx, bankID, accountID, transactionID)
	if err != nil {
		return nil, err
	}

	existing.Amount = *req.Amount
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Date != nil {
		existing.Date = req.Date.UTC()
	}
	existing.UpdatedAt = s.Now()

	saved, err := s.txnRepo.UpdateTransaction(ctx, *existing, s.engine.Resolve)
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	s.reportDuplicates(ctx, *saved)
	return saved, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	existing, err := s.GetTransactionByID(ctx, bankID, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.txnRepo.DeleteTransaction(ctx, bankID, accountID, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}
	return existing, nil
}

func (s *transactionService) reportDuplicates(ctx context.Context, txn domain.Transaction) {
	if txn.DuplicateGroup.IsEmpty() {
		return
	}
	s.LogInfo(ctx, "Duplicate transaction detected",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("duplicate_ids", txn.DuplicateGroup.String()))
	if s.events != nil {
		s.events.DuplicateTransactionDetected(ctx, txn)
	}
}
