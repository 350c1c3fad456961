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
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const fullAccountSelectQuery = `
SELECT a.account_id, a.bank_id, a.name, a.created_at, a.updated_at
FROM accounts a
`

func (r *PgxAccountRepository) getAccounts(ctx context.Context, filterQuery string, args ...any) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, fullAccountSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, translateError(err, "failed to query accounts")
	}
	defer rows.Close()

	modelAccounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, "failed to collect account rows")
	}
	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

func (r *PgxAccountRepository) ListAccountsByBank(ctx context.Context, bankID int64) ([]domain.Account, error) {
	return r.getAccounts(ctx, `WHERE a.bank_id = $1 ORDER BY a.account_id`, bankID)
}

func (r *PgxAccountRepository) FindAccountByBankAndID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	accounts, err := r.getAccounts(ctx, `WHERE a.bank_id = $1 AND a.account_id = $2`, bankID, accountID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.NotFound("Account")
	}
	return &accounts[0], nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (bank_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING account_id;
	`
	if err := r.Pool.QueryRow(ctx, query, m.BankID, m.Name, m.CreatedAt, m.UpdatedAt).Scan(&m.AccountID); err != nil {
		return nil, translateError(err, "failed to save account")
	}
	saved := mapping.ToDomainAccount(m)
	return &saved, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `UPDATE accounts SET name = $3, updated_at = $4 WHERE bank_id = $1 AND account_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, account.BankID, account.AccountID, account.Name, account.UpdatedAt)
	if err != nil {
		return translateError(err, "failed to update account")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Account")
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, bankID int64, accountID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE bank_id = $1 AND account_id = $2;`, bankID, accountID)
	if err != nil {
		return translateError(err, "failed to delete account")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Account")
	}
	return nil
}

func (r *PgxAccountRepository) SumTransactionAmounts(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		WHERE t.bank_id = $1 AND t.account_id = $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, bankID, accountID).Scan(&sum); err != nil {
		return decimal.Zero, translateError(err, "failed to sum transaction amounts")
	}
	return sum, nil
}
