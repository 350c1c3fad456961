package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/models"
	"github.com/SscSPs/bank_ledger_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const fullTransactionSelectQuery = `
SELECT
	t.transaction_id, t.bank_id, t.account_id, t.amount, t.description, t.date,
	t.duplicate_ids, t.created_at, t.updated_at
FROM transactions t
`

const transactionReturning = `
RETURNING transaction_id, bank_id, account_id, amount, description, date,
	duplicate_ids, created_at, updated_at
`

// recentMatchesQuery buckets recent rows by grouping key. Equal numerics
// (10.0, 10.00) fall in the same bucket and NULL descriptions form their own.
const recentMatchesQuery = `
SELECT t.amount, t.description, array_agg(t.transaction_id ORDER BY t.transaction_id)
FROM transactions t
WHERE t.amount = $1 AND t.created_at >= $2 AND t.created_at <= $3
GROUP BY t.amount, t.description
`

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, translateError(err, "failed to collect transaction rows")
	}
	txns, err := mapping.ToDomainTransactionSlice(modelTxns)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode transaction rows", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) getTransactions(ctx context.Context, filterQuery string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, fullTransactionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, translateError(err, "failed to query transactions")
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, bankID int64, accountID int64) ([]domain.Transaction, error) {
	return r.getTransactions(ctx, `WHERE t.bank_id = $1 AND t.account_id = $2 ORDER BY t.transaction_id`, bankID, accountID)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	txns, err := r.getTransactions(ctx,
		`WHERE t.bank_id = $1 AND t.account_id = $2 AND t.transaction_id = $3`,
		bankID, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NotFound("Transaction")
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) FindTransactionsByIDs(ctx context.Context, transactionIDs []int64) (map[int64]domain.Transaction, error) {
	if len(transactionIDs) == 0 {
		return map[int64]domain.Transaction{}, nil
	}
	txns, err := r.getTransactions(ctx, `WHERE t.transaction_id = ANY($1)`, transactionIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]domain.Transaction, len(txns))
	for _, t := range txns {
		found[t.TransactionID] = t
	}
	return found, nil
}

func (r *PgxTransactionRepository) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	return findRecentMatches(ctx, r.Pool, amount, windowStart, windowEnd)
}

func findRecentMatches(ctx context.Context, q querier, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	rows, err := q.Query(ctx, recentMatchesQuery, amount, windowStart, windowEnd)
	if err != nil {
		return nil, translateError(err, "failed to query recent matches")
	}
	defer rows.Close()

	var groups []domain.MatchGroup
	for rows.Next() {
		var g domain.MatchGroup
		if err := rows.Scan(&g.Amount, &g.Description, &g.IDs); err != nil {
			return nil, translateError(err, "failed to scan recent match")
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate recent matches")
	}
	return groups, nil
}

// txFinder runs the recent-match lookup inside an open write transaction.
type txFinder struct {
	tx pgx.Tx
}

func (f txFinder) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	return findRecentMatches(ctx, f.tx, amount, windowStart, windowEnd)
}

// lockGroupingKey serializes writers of the same (amount, description) until the transaction ends.
func lockGroupingKey(ctx context.Context, tx pgx.Tx, key domain.GroupingKey) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key.LockID()); err != nil {
		return translateError(err, "failed to lock grouping key")
	}
	return nil
}

// writeWithDuplicates opens a transaction, locks the candidate's grouping key,
// stamps the duplicate group and hands the row to write.
func (r *PgxTransactionRepository) writeWithDuplicates(
	ctx context.Context,
	txn domain.Transaction,
	resolve portsrepo.DuplicateResolver,
	write func(tx pgx.Tx, m models.Transaction) pgx.Row,
) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := lockGroupingKey(ctx, tx, domain.KeyOf(txn)); err != nil {
		return nil, err
	}

	group, err := resolve(ctx, txFinder{tx: tx}, txn)
	if err != nil {
		return nil, err
	}
	txn.DuplicateGroup = group
	txn.CreatedAt = txn.CreatedAt.Truncate(duplicates.Resolution)
	txn.UpdatedAt = txn.UpdatedAt.Truncate(duplicates.Resolution)

	var saved models.Transaction
	if err := scanTransaction(write(tx, mapping.ToModelTransaction(txn)), &saved); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	out, err := mapping.ToDomainTransaction(saved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode saved transaction", err)
	}
	return &out, nil
}

func scanTransaction(row pgx.Row, m *models.Transaction) error {
	err := row.Scan(
		&m.TransactionID,
		&m.BankID,
		&m.AccountID,
		&m.Amount,
		&m.Description,
		&m.Date,
		&m.DuplicateIDs,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("Transaction")
		}
		return translateError(err, "failed to write transaction")
	}
	return nil
}

func (r *PgxTransactionRepository) CreateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	txn.TransactionID = 0
	return r.writeWithDuplicates(ctx, txn, resolve, func(tx pgx.Tx, m models.Transaction) pgx.Row {
		query := `
			INSERT INTO transactions (bank_id, account_id, amount, description, date, duplicate_ids, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		` + transactionReturning
		return tx.QueryRow(ctx, query,
			m.BankID,
			m.AccountID,
			m.Amount,
			m.Description,
			m.Date,
			m.DuplicateIDs,
			m.CreatedAt,
			m.UpdatedAt,
		)
	})
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	return r.writeWithDuplicates(ctx, txn, resolve, func(tx pgx.Tx, m models.Transaction) pgx.Row {
		query := `
			UPDATE transactions
			SET amount = $4, description = $5, date = $6, duplicate_ids = $7, updated_at = $8
			WHERE bank_id = $1 AND account_id = $2 AND transaction_id = $3
		` + transactionReturning
		return tx.QueryRow(ctx, query,
			m.BankID,
			m.AccountID,
			m.TransactionID,
			m.Amount,
			m.Description,
			m.Date,
			m.DuplicateIDs,
			m.UpdatedAt,
		)
	})
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) error {
	query := `DELETE FROM transactions WHERE bank_id = $1 AND account_id = $2 AND transaction_id = $3;`
	tag, err := r.Pool.Exec(ctx, query, bankID, accountID, transactionID)
	if err != nil {
		return translateError(err, "failed to delete transaction")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Transaction")
	}
	return nil
}
