package mapping

import (
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/models"
)

// ToModelBank converts a domain Bank to a model Bank
func ToModelBank(d domain.Bank) models.Bank {
	return models.Bank{
		BankID:      d.BankID,
		Name:        d.Name,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBank converts a model Bank to a domain Bank
func ToDomainBank(m models.Bank) domain.Bank {
	return domain.Bank{
		BankID:      m.BankID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankSlice converts a slice of model Banks to a slice of domain Banks
func ToDomainBankSlice(ms []models.Bank) []domain.Bank {
	ds := make([]domain.Bank, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBank(m)
	}
	return ds
}
