package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
)

type bankService struct {
	BaseService
	bankRepo portsrepo.BankRepositoryFacade
}

// NewBankService creates a new bank service
func NewBankService(repo portsrepo.BankRepositoryFacade, options ...ServiceOption) portssvc.BankSvcFacade {
	svc := &bankService{bankRepo: repo}
	svc.apply(options)
	return svc
}

var _ portssvc.BankSvcFacade = (*bankService)(nil)

func (s *bankService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	banks, err := s.bankRepo.ListBanks(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list banks")
		return nil, err
	}
	return banks, nil
}

func (s *bankService) GetBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	bank, err := s.bankRepo.FindBankByID(ctx, bankID)
	if err != nil {
		s.LogDebug(ctx, "Bank lookup failed", slog.Int64("bank_id", bankID), slog.String("error", err.Error()))
		return nil, err
	}
	return bank, nil
}

func (s *bankService) CreateBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	saved, err := s.bankRepo.SaveBank(ctx, domain.Bank{
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save bank", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Bank created", slog.Int64("bank_id", saved.BankID))
	return saved, nil
}

func (s *bankService) UpdateBank(ctx context.Context, bankID int64, req dto.UpdateBankRequest) (*domain.Bank, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	bank, err := s.GetBankByID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	bank.Name = name
	bank.UpdatedAt = s.Now()

	if err := s.bankRepo.UpdateBank(ctx, *bank); err != nil {
		s.LogError(ctx, err, "Failed to update bank", slog.Int64("bank_id", bankID))
		return nil, err
	}
	return bank, nil
}

func (s *bankService) DeleteBank(ctx context.Context, bankID int64) (*domain.Bank, error) {
	bank, err := s.GetBankByID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if err := s.bankRepo.DeleteBank(ctx, bankID); err != nil {
		s.LogError(ctx, err, "Failed to delete bank", slog.Int64("bank_id", bankID))
		return nil, err
	}
	s.LogInfo(ctx, "Bank deleted", slog.Int64("bank_id", bankID))
	return bank, nil
}
