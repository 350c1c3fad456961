package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/models"
	"github.com/SscSPs/bank_ledger_api/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type SQLiteTransactionRepository struct {
	BaseRepository
}

func newSQLiteTransactionRepository(db *sql.DB) portsrepo.TransactionRepositoryFacade {
	return &SQLiteTransactionRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*SQLiteTransactionRepository)(nil)

const fullTransactionSelectQuery = `
SELECT transaction_id, bank_id, account_id, amount, description, date, duplicate_ids, created_at, updated_at
FROM transactions
`

// recentMatchesQuery buckets recent rows by grouping key. Amounts are stored
// normalized, so text equality is decimal equality.
const recentMatchesQuery = `
SELECT amount, description, group_concat(transaction_id)
FROM transactions
WHERE amount = ? AND created_at >= ? AND created_at <= ?
GROUP BY amount, description
`

// storedAmount is the canonical text form: 10.00 and 10.0 both become "10".
func storedAmount(d decimal.Decimal) string {
	return d.String()
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		m                    models.Transaction
		amount, date         string
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(
		&m.TransactionID,
		&m.BankID,
		&m.AccountID,
		&amount,
		&m.Description,
		&date,
		&m.DuplicateIDs,
		&createdAt,
		&updatedAt,
	); err != nil {
		return m, err
	}
	if m.Amount, err = decimal.NewFromString(amount); err != nil {
		return m, err
	}
	if m.Date, err = parseTime(date); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	return m, err
}

func getTransactions(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.QueryContext(ctx, fullTransactionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, translateError(err, "failed to query transactions")
	}
	defer rows.Close()

	var modelTxns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan transaction")
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate transactions")
	}
	txns, err := mapping.ToDomainTransactionSlice(modelTxns)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode transaction rows", err)
	}
	return txns, nil
}

func (r *SQLiteTransactionRepository) ListTransactionsByAccount(ctx context.Context, bankID int64, accountID int64) ([]domain.Transaction, error) {
	return getTransactions(ctx, r.DB, `WHERE bank_id = ? AND account_id = ? ORDER BY transaction_id`, bankID, accountID)
}

func findTransaction(ctx context.Context, q querier, bankID, accountID, transactionID int64) (*domain.Transaction, error) {
	txns, err := getTransactions(ctx, q,
		`WHERE bank_id = ? AND account_id = ? AND transaction_id = ?`,
		bankID, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NotFound("Transaction")
	}
	return &txns[0], nil
}

func (r *SQLiteTransactionRepository) FindTransactionByID(ctx context.Context, bankID int64, accountID int64, transactionID int64) (*domain.Transaction, error) {
	return findTransaction(ctx, r.DB, bankID, accountID, transactionID)
}

func (r *SQLiteTransactionRepository) FindTransactionsByIDs(ctx context.Context, transactionIDs []int64) (map[int64]domain.Transaction, error) {
	if len(transactionIDs) == 0 {
		return map[int64]domain.Transaction{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(transactionIDs)), ",")
	args := make([]any, len(transactionIDs))
	for i, id := range transactionIDs {
		args[i] = id
	}
	txns, err := getTransactions(ctx, r.DB, `WHERE transaction_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]domain.Transaction, len(txns))
	for _, t := range txns {
		found[t.TransactionID] = t
	}
	return found, nil
}

func (r *SQLiteTransactionRepository) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	return findRecentMatches(ctx, r.DB, amount, windowStart, windowEnd)
}

func findRecentMatches(ctx context.Context, q querier, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	rows, err := q.QueryContext(ctx, recentMatchesQuery, storedAmount(amount), formatTime(windowStart), formatTime(windowEnd))
	if err != nil {
		return nil, translateError(err, "failed to query recent matches")
	}
	defer rows.Close()

	var groups []domain.MatchGroup
	for rows.Next() {
		var (
			rawAmount   string
			description sql.NullString
			rawIDs      string
		)
		if err := rows.Scan(&rawAmount, &description, &rawIDs); err != nil {
			return nil, translateError(err, "failed to scan recent match")
		}
		g := domain.MatchGroup{}
		if g.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, apperrors.NewAppError(500, "invalid stored amount", err)
		}
		if description.Valid {
			desc := description.String
			g.Description = &desc
		}
		ids, err := domain.ParseDuplicateGroup(rawIDs)
		if err != nil {
			return nil, apperrors.NewAppError(500, "invalid grouped ids", err)
		}
		g.IDs = ids.IDs()
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate recent matches")
	}
	return groups, nil
}

type txFinder struct {
	tx *sql.Tx
}

func (f txFinder) FindRecentMatches(ctx context.Context, amount decimal.Decimal, windowStart, windowEnd time.Time) ([]domain.MatchGroup, error) {
	return findRecentMatches(ctx, f.tx, amount, windowStart, windowEnd)
}

func nullableString(ns sql.NullString) any {
	if !ns.Valid {
		return nil
	}
	return ns.String
}

// writeWithDuplicates runs resolve and write inside one immediate transaction.
func (r *SQLiteTransactionRepository) writeWithDuplicates(
	ctx context.Context,
	txn domain.Transaction,
	resolve portsrepo.DuplicateResolver,
	write func(tx *sql.Tx, m models.Transaction) (int64, error),
) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(tx)

	group, err := resolve(ctx, txFinder{tx: tx}, txn)
	if err != nil {
		return nil, err
	}
	txn.DuplicateGroup = group

	id, err := write(tx, mapping.ToModelTransaction(txn))
	if err != nil {
		return nil, err
	}
	saved, err := findTransaction(ctx, tx, txn.BankID, txn.AccountID, id)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(tx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *SQLiteTransactionRepository) CreateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	txn.TransactionID = 0
	return r.writeWithDuplicates(ctx, txn, resolve, func(tx *sql.Tx, m models.Transaction) (int64, error) {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (bank_id, account_id, amount, description, date, duplicate_ids, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.BankID,
			m.AccountID,
			storedAmount(m.Amount),
			nullableString(m.Description),
			formatTime(m.Date),
			nullableString(m.DuplicateIDs),
			formatTime(m.CreatedAt),
			formatTime(m.UpdatedAt),
		)
		if err != nil {
			return 0, translateError(err, "failed to save transaction")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, translateError(err, "failed to read transaction id")
		}
		return id, nil
	})
}

func (r *SQLiteTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, resolve portsrepo.DuplicateResolver) (*domain.Transaction, error) {
	return r.writeWithDuplicates(ctx, txn, resolve, func(tx *sql.Tx, m models.Transaction) (int64, error) {
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET amount = ?, description = ?, date = ?, duplicate_ids = ?, updated_at = ?
			WHERE bank_id = ? AND account_id = ? AND transaction_id = ?`,
			storedAmount(m.Amount),
			nullableString(m.Description),
			formatTime(m.Date),
			nullableString(m.DuplicateIDs),
			formatTime(m.UpdatedAt),
			m.BankID,
			m.AccountID,
			m.TransactionID,
		)
		if err != nil {
			return 0, translateError(err, "failed to update transaction")
		}
		if err := requireAffected(res, "Transaction"); err != nil {
			return 0, err
		}
		return m.TransactionID, nil
	})
}

func (r *SQLiteTransactionRepository) DeleteTransaction(ctx context.Context, bankID int64, accountID int64, transactionID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM transactions WHERE bank_id = ? AND account_id = ? AND transaction_id = ?`,
		bankID, accountID, transactionID)
	if err != nil {
		return translateError(err, "failed to delete transaction")
	}
	return requireAffected(res, "Transaction")
}
