package sqlite

import (
	"context"
	"database/sql"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/models"
	"github.com/SscSPs/bank_ledger_api/internal/utils/mapping"
)

type SQLiteBankRepository struct {
	BaseRepository
}

func newSQLiteBankRepository(db *sql.DB) portsrepo.BankRepositoryFacade {
	return &SQLiteBankRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.BankRepositoryFacade = (*SQLiteBankRepository)(nil)

const fullBankSelectQuery = `SELECT bank_id, name, created_at, updated_at FROM banks `

func scanBank(row rowScanner) (models.Bank, error) {
	var (
		m                    models.Bank
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(&m.BankID, &m.Name, &createdAt, &updatedAt); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	return m, err
}

func (r *SQLiteBankRepository) getBanks(ctx context.Context, filterQuery string, args ...any) ([]domain.Bank, error) {
	rows, err := r.DB.QueryContext(ctx, fullBankSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, translateError(err, "failed to query banks")
	}
	defer rows.Close()

	var banks []models.Bank
	for rows.Next() {
		m, err := scanBank(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan bank")
		}
		banks = append(banks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate banks")
	}
	return mapping.ToDomainBankSlice(banks), nil
}

func (r *SQLiteBankRepository) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	return r.getBanks(ctx, `ORDER BY bank_id`)
}

func (r *SQLiteBankRepository) FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	banks, err := r.getBanks(ctx, `WHERE bank_id = ?`, bankID)
	if err != nil {
		return nil, err
	}
	if len(banks) == 0 {
		return nil, apperrors.NotFound("Bank")
	}
	return &banks[0], nil
}

func (r *SQLiteBankRepository) SaveBank(ctx context.Context, bank domain.Bank) (*domain.Bank, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO banks (name, created_at, updated_at) VALUES (?, ?, ?)`,
		bank.Name, formatTime(bank.CreatedAt), formatTime(bank.UpdatedAt))
	if err != nil {
		return nil, translateError(err, "failed to save bank")
	}
	if bank.BankID, err = res.LastInsertId(); err != nil {
		return nil, translateError(err, "failed to read bank id")
	}
	return &bank, nil
}

func (r *SQLiteBankRepository) UpdateBank(ctx context.Context, bank domain.Bank) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE banks SET name = ?, updated_at = ? WHERE bank_id = ?`,
		bank.Name, formatTime(bank.UpdatedAt), bank.BankID)
	if err != nil {
		return translateError(err, "failed to update bank")
	}
	return requireAffected(res, "Bank")
}

func (r *SQLiteBankRepository) DeleteBank(ctx context.Context, bankID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM banks WHERE bank_id = ?`, bankID)
	if err != nil {
		return translateError(err, "failed to delete bank")
	}
	return requireAffected(res, "Bank")
}

func requireAffected(res sql.Result, model string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translateError(err, "failed to read affected rows")
	}
	if n == 0 {
		return apperrors.NotFound(model)
	}
	return nil
}
