package domain

// Account belongs to exactly one bank and owns zero or more transactions.
// Names are globally unique.
type Account struct {
	AccountID int64  `json:"accountID"`
	BankID    int64  `json:"bankID"` // FK -> banks.bank_id
	Name      string `json:"name"`
	AuditFields
}
