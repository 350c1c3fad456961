package mapping

import (
	"database/sql"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelTransaction_OptionalColumns(t *testing.T) {
	empty := ""
	withEmpty := ToModelTransaction(domain.Transaction{Amount: decimal.NewFromInt(1), Description: &empty})
	assert.True(t, withEmpty.Description.Valid, "empty description is stored, not NULL")
	assert.False(t, withEmpty.DuplicateIDs.Valid)

	absent := ToModelTransaction(domain.Transaction{
		Amount:         decimal.NewFromInt(1),
		DuplicateGroup: domain.NewDuplicateGroup(9, 4),
	})
	assert.False(t, absent.Description.Valid)
	assert.Equal(t, sql.NullString{String: "4,9", Valid: true}, absent.DuplicateIDs)
}

func TestToDomainTransaction(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := models.Transaction{
		TransactionID: 12,
		BankID:        1,
		AccountID:     2,
		Amount:        decimal.RequireFromString("10.50"),
		Description:   sql.NullString{String: "rent", Valid: true},
		Date:          now,
		DuplicateIDs:  sql.NullString{String: "3,1", Valid: true},
		AuditFields:   models.AuditFields{CreatedAt: now, UpdatedAt: now},
	}

	d, err := ToDomainTransaction(m)
	require.NoError(t, err)
	require.NotNil(t, d.Description)
	assert.Equal(t, "rent", *d.Description)
	assert.Equal(t, []int64{1, 3}, d.DuplicateGroup.IDs())
	assert.Equal(t, now, d.CreatedAt)

	m.DuplicateIDs = sql.NullString{String: "1,abc", Valid: true}
	_, err = ToDomainTransaction(m)
	assert.Error(t, err)
}
