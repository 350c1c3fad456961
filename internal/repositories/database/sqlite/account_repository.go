package sqlite

import (
	"context"
	"database/sql"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/models"
	"github.com/SscSPs/bank_ledger_api/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type SQLiteAccountRepository struct {
	BaseRepository
}

func newSQLiteAccountRepository(db *sql.DB) portsrepo.AccountRepositoryFacade {
	return &SQLiteAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AccountRepositoryFacade = (*SQLiteAccountRepository)(nil)

const fullAccountSelectQuery = `SELECT account_id, bank_id, name, created_at, updated_at FROM accounts `

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		m                    models.Account
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(&m.AccountID, &m.BankID, &m.Name, &createdAt, &updatedAt); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	return m, err
}

func (r *SQLiteAccountRepository) getAccounts(ctx context.Context, filterQuery string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.QueryContext(ctx, fullAccountSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, translateError(err, "failed to query accounts")
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan account")
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate accounts")
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func (r *SQLiteAccountRepository) ListAccountsByBank(ctx context.Context, bankID int64) ([]domain.Account, error) {
	return r.getAccounts(ctx, `WHERE bank_id = ? ORDER BY account_id`, bankID)
}

func (r *SQLiteAccountRepository) FindAccountByBankAndID(ctx context.Context, bankID int64, accountID int64) (*domain.Account, error) {
	accounts, err := r.getAccounts(ctx, `WHERE bank_id = ? AND account_id = ?`, bankID, accountID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.NotFound("Account")
	}
	return &accounts[0], nil
}

func (r *SQLiteAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO accounts (bank_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		account.BankID, account.Name, formatTime(account.CreatedAt), formatTime(account.UpdatedAt))
	if err != nil {
		return nil, translateError(err, "failed to save account")
	}
	if account.AccountID, err = res.LastInsertId(); err != nil {
		return nil, translateError(err, "failed to read account id")
	}
	return &account, nil
}

func (r *SQLiteAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE accounts SET name = ?, updated_at = ? WHERE bank_id = ? AND account_id = ?`,
		account.Name, formatTime(account.UpdatedAt), account.BankID, account.AccountID)
	if err != nil {
		return translateError(err, "failed to update account")
	}
	return requireAffected(res, "Account")
}

func (r *SQLiteAccountRepository) DeleteAccount(ctx context.Context, bankID int64, accountID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM accounts WHERE bank_id = ? AND account_id = ?`, bankID, accountID)
	if err != nil {
		return translateError(err, "failed to delete account")
	}
	return requireAffected(res, "Account")
}

// SumTransactionAmounts adds the stored decimal text in Go; SQLite's SUM would go through floats.
func (r *SQLiteAccountRepository) SumTransactionAmounts(ctx context.Context, bankID int64, accountID int64) (decimal.Decimal, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT amount FROM transactions WHERE bank_id = ? AND account_id = ?`, bankID, accountID)
	if err != nil {
		return decimal.Zero, translateError(err, "failed to query transaction amounts")
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, translateError(err, "failed to scan transaction amount")
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, apperrors.NewAppError(500, "invalid stored amount", err)
		}
		sum = sum.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, translateError(err, "failed to iterate transaction amounts")
	}
	return sum, nil
}
