package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// Description is optional; an explicit empty string is kept distinct from an absent one.
type CreateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"-12.50"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date" binding:"required"`
}

// UpdateTransactionRequest defines the data allowed for updating a transaction.
// Fields left out keep their stored value, except amount which must always be sent.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"-12.50"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date"`
}

// FieldError reports a request field whose value could not be read.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// transactionFields is the wire shape shared by both transaction requests.
type transactionFields struct {
	Amount      json.RawMessage `json:"amount"`
	Description json.RawMessage `json:"description"`
	Date        *time.Time      `json:"date"`
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// decodeAmount accepts a JSON number or a numeric string.
func decodeAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return nil, &FieldError{Field: "amount", Err: err}
	}
	return &d, nil
}

// decodeText keeps strings as sent; any other JSON value is kept as its literal text.
func decodeText(raw json.RawMessage) *string {
	if isAbsent(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s = string(raw)
	} else {
		s = buf.String()
	}
	return &s
}

func (r *CreateTransactionRequest) UnmarshalJSON(data []byte) error {
	var f transactionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	amount, err := decodeAmount(f.Amount)
	if err != nil {
		return err
	}
	*r = CreateTransactionRequest{Amount: amount, Description: decodeText(f.Description), Date: f.Date}
	return nil
}

func (r *UpdateTransactionRequest) UnmarshalJSON(data []byte) error {
	var f transactionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	amount, err := decodeAmount(f.Amount)
	if err != nil {
		return err
	}
	*r = UpdateTransactionRequest{Amount: amount, Description: decodeText(f.Description), Date: f.Date}
	return nil
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID int64           `json:"transactionID"`
	BankID        int64           `json:"bankID"`
	AccountID     int64           `json:"accountID"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	Description   *string         `json:"description"`
	Date          time.Time       `json:"date"`
	DuplicateIDs  []int64         `json:"duplicateIDs"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// FlaggedTransactionResponse is a listed transaction with its duplicates resolved.
type FlaggedTransactionResponse struct {
	TransactionResponse
	FlagTransactions []TransactionResponse `json:"flagTransactions"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	ids := t.DuplicateGroup.IDs()
	if ids == nil {
		ids = []int64{}
	}
	return TransactionResponse{
		TransactionID: t.TransactionID,
		BankID:        t.BankID,
		AccountID:     t.AccountID,
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          t.Date,
		DuplicateIDs:  ids,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToListTransactionResponse converts flagged transactions to their list DTOs
func ToListTransactionResponse(items []domain.FlaggedTransaction) []FlaggedTransactionResponse {
	res := make([]FlaggedTransactionResponse, len(items))
	for i := range items {
		flags := make([]TransactionResponse, len(items[i].FlagTransactions))
		for j := range items[i].FlagTransactions {
			flags[j] = ToTransactionResponse(&items[i].FlagTransactions[j])
		}
		res[i] = FlaggedTransactionResponse{
			TransactionResponse: ToTransactionResponse(&items[i].Transaction),
			FlagTransactions:    flags,
		}
	}
	return res
}
