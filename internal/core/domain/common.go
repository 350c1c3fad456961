package domain

import "time"

// AuditFields holds the system-assigned timestamps shared by all entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
