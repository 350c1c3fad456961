package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single signed movement on an account.
//
// BankID always equals the owning account's BankID. CreatedAt is used for
// duplicate windowing only and is never treated as business data; Date is
// the caller-supplied business date.
type Transaction struct {
	TransactionID  int64           `json:"transactionID"`
	BankID         int64           `json:"bankID"`
	AccountID      int64           `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Description    *string         `json:"description"` // nil and "" are different values
	Date           time.Time       `json:"date"`
	DuplicateGroup DuplicateGroup  `json:"duplicateIDs"`
	AuditFields
}

// DescriptionValue returns the description or "" when it is absent.
func (t Transaction) DescriptionValue() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// SameDescription reports whether two optional descriptions are identical.
// An absent description never equals a present one, even an empty one.
func SameDescription(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FlaggedTransaction is a transaction together with the stored records its
// duplicate group points at. Members that no longer exist are left out.
type FlaggedTransaction struct {
	Transaction
	FlagTransactions []Transaction
}
