package mapping

import (
	"database/sql"
	"fmt"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		BankID:        d.BankID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Date:          d.Date,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Description != nil {
		m.Description = sql.NullString{String: *d.Description, Valid: true}
	}
	if !d.DuplicateGroup.IsEmpty() {
		m.DuplicateIDs = sql.NullString{String: d.DuplicateGroup.String(), Valid: true}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// It fails only when the stored duplicate_ids column is malformed.
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		BankID:        m.BankID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		Date:          m.Date,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.Description.Valid {
		desc := m.Description.String
		d.Description = &desc
	}
	if m.DuplicateIDs.Valid {
		group, err := domain.ParseDuplicateGroup(m.DuplicateIDs.String)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("transaction %d: %w", m.TransactionID, err)
		}
		d.DuplicateGroup = group
	}
	return d, nil
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.Transaction, error) {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
