package models

// Account is the row stored in the accounts table.
type Account struct {
	AccountID int64  `db:"account_id"`
	BankID    int64  `db:"bank_id"` // FK -> banks.bank_id
	Name      string `db:"name"`
	AuditFields
}
