package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the SQLite-backed repositories over a shared handle.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BankRepo:        newSQLiteBankRepository(db),
		AccountRepo:     newSQLiteAccountRepository(db),
		TransactionRepo: newSQLiteTransactionRepository(db),
		Close:           func() { _ = db.Close() },
	}
}
