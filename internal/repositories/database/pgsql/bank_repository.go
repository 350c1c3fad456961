package pgsql

import (
	"context"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/models"
	"github.com/SscSPs/bank_ledger_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for bank data.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBankRepository implements portsrepo.BankRepositoryFacade
var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

const fullBankSelectQuery = `
SELECT b.bank_id, b.name, b.created_at, b.updated_at
FROM banks b
`

func (r *PgxBankRepository) getBanks(ctx context.Context, filterQuery string, args ...any) ([]domain.Bank, error) {
	rows, err := r.Pool.Query(ctx, fullBankSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, translateError(err, "failed to query banks")
	}
	defer rows.Close()

	modelBanks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Bank])
	if err != nil {
		return nil, translateError(err, "failed to collect bank rows")
	}
	return mapping.ToDomainBankSlice(modelBanks), nil
}

func (r *PgxBankRepository) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	return r.getBanks(ctx, `ORDER BY b.bank_id`)
}

func (r *PgxBankRepository) FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	banks, err := r.getBanks(ctx, `WHERE b.bank_id = $1`, bankID)
	if err != nil {
		return nil, err
	}
	if len(banks) == 0 {
		return nil, apperrors.NotFound("Bank")
	}
	return &banks[0], nil
}

func (r *PgxBankRepository) SaveBank(ctx context.Context, bank domain.Bank) (*domain.Bank, error) {
	m := mapping.ToModelBank(bank)
	query := `
		INSERT INTO banks (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING bank_id;
	`
	if err := r.Pool.QueryRow(ctx, query, m.Name, m.CreatedAt, m.UpdatedAt).Scan(&m.BankID); err != nil {
		return nil, translateError(err, "failed to save bank")
	}
	saved := mapping.ToDomainBank(m)
	return &saved, nil
}

func (r *PgxBankRepository) UpdateBank(ctx context.Context, bank domain.Bank) error {
	query := `UPDATE banks SET name = $2, updated_at = $3 WHERE bank_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, bank.BankID, bank.Name, bank.UpdatedAt)
	if err != nil {
		return translateError(err, "failed to update bank")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Bank")
	}
	return nil
}

func (r *PgxBankRepository) DeleteBank(ctx context.Context, bankID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM banks WHERE bank_id = $1;`, bankID)
	if err != nil {
		return translateError(err, "failed to delete bank")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Bank")
	}
	return nil
}
