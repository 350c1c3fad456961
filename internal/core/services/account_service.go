package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/shopspring/decimal"
)

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	bankRepo    portsrepo.BankReader
}

// NewAccountService creates a new account service. Every lookup is scoped by bank.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, bankRepo portsrepo.BankReader, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		bankRepo:    bankRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) ListAccounts(ctx context.Context, bankID int64) ([]domain.Account, error) {
	if _, err := s.bankRepo.FindBankByID(ctx, bankID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccountsByBank(ctx, bankID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int64("bank_id", bankID))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	if _, err := s.bankRepo.FindBankByID(ctx, bankID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByBankAndID(ctx, bankID, accountID)
	if err != nil {
		s.LogDebug(ctx, "Account lookup failed",
			slog.Int64("bank_id", bankID),
			slog.Int64("account_id", accountID),
			slog.String("error", err.Error()))
		return nil, err
	}
	return account, nil
}

func (s *accountService) CreateAccount(ctx context.Context, bankID int64, req dto.CreateAccountRequest) (*domain.Account, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.bankRepo.FindBankByID(ctx, bankID); err != nil {
		return nil, err
	}

	now := s.Now()
	saved, err := s.accountRepo.SaveAccount(ctx, domain.Account{
		BankID:      bankID,
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.Int64("bank_id", bankID), slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.Int64("bank_id", bankID), slog.Int64("account_id", saved.AccountID))
	return saved, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, bankID int64, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, bankID, accountID)
	if err != nil {
		return nil, err
	}
	account.Name = name
	account.UpdatedAt = s.Now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, bankID, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.DeleteAccount(ctx, bankID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.Int64("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account deleted", slog.Int64("bank_id", bankID), slog.Int64("account_id", accountID))
	return account, nil
}

func (s *accountService) GetAccountAmount(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error) {
	if _, err := s.GetAccountByID(ctx, bankID, accountID); err != nil {
		return decimal.Zero, err
	}
	sum, err := s.accountRepo.SumTransactionAmounts(ctx, bankID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transaction amounts", slog.Int64("account_id", accountID))
		return decimal.Zero, err
	}
	return sum, nil
}
