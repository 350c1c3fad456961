package models

import "time"

// AuditFields holds the timestamp columns every table carries.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
