package models

// Bank is the row stored in the banks table.
type Bank struct {
	BankID int64  `db:"bank_id"`
	Name   string `db:"name"`
	AuditFields
}
