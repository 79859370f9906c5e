package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded against ledger entities.
const (
	AuditActionCreate = "create"
	AuditActionEdit   = "edit"
	AuditActionDelete = "delete"
)

// Audited entity kinds.
const (
	AuditEntityPayment = "payment"
	AuditEntityExpense = "expense"
	AuditEntityConcept = "concept"
)

// AuditLogEntry is an append-only record of who changed which ledger
// entity. Entries are created by the mutation services and never
// updated or deleted.
type AuditLogEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:255" json:"user_name"`
	RoleID   uint   `json:"role_id"`
	CourseID uint   `json:"course_id"`
	SchoolID uint   `json:"school_id"`

	Action   string            `gorm:"size:32;not null" json:"action"`
	Entity   string            `gorm:"size:64;not null" json:"entity"`
	EntityID *uint             `json:"entity_id"`
	Detail   string            `gorm:"type:text" json:"detail"`
	Metadata datatypes.JSONMap `gorm:"type:json" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
