package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row stored in the transactions table.
// DuplicateIDs keeps the legacy comma-joined form ("3,7,12"); NULL means no duplicates.
type Transaction struct {
	TransactionID int64           `db:"transaction_id"`
	BankID        int64           `db:"bank_id"`    // FK -> banks.bank_id
	AccountID     int64           `db:"account_id"` // FK -> accounts.account_id
	Amount        decimal.Decimal `db:"amount"`
	Description   sql.NullString  `db:"description"`
	Date          time.Time       `db:"date"`
	DuplicateIDs  sql.NullString  `db:"duplicate_ids"`
	AuditFields
}
