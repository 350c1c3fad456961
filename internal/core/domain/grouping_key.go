package domain

import (
	"hash/fnv"

	"github.com/shopspring/decimal"
)

// GroupingKey is the pair transactions are bucketed by before window filtering.
type GroupingKey struct {
	Amount      decimal.Decimal
	Description *string
}

// KeyOf returns the grouping key of a transaction.
func KeyOf(t Transaction) GroupingKey {
	return GroupingKey{Amount: t.Amount, Description: t.Description}
}

// Matches reports whether other has exactly the same amount and description.
func (k GroupingKey) Matches(other GroupingKey) bool {
	return k.Amount.Equal(other.Amount) && SameDescription(k.Description, other.Description)
}

// LockID folds the key into a 64-bit id suitable for advisory locks.
// Numerically equal amounts (10.0, 10.00) produce the same id.
func (k GroupingKey) LockID() int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.Amount.String()))
	if k.Description == nil {
		_, _ = h.Write([]byte{0})
	} else {
		_, _ = h.Write([]byte{1})
		_, _ = h.Write([]byte(*k.Description))
	}
	return int64(h.Sum64())
}

// MatchGroup is one (amount, description) bucket of recently persisted transactions.
type MatchGroup struct {
	Amount      decimal.Decimal
	Description *string
	IDs         []int64
}

// Key returns the bucket's grouping key.
func (g MatchGroup) Key() GroupingKey {
	return GroupingKey{Amount: g.Amount, Description: g.Description}
}
