package domain

// Bank owns zero or more accounts. Names are globally unique.
type Bank struct {
	BankID int64  `json:"bankID"`
	Name   string `json:"name"`
	AuditFields
}
