package dto

import (
	"time"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// AuditListRequest filters the audit trail listing.
type AuditListRequest struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size" validate:"omitempty,max=100"`
	UserID   *uint  `json:"user_id"`
	Action   string `json:"action" validate:"omitempty,oneof=create edit delete"`
	Entity   string `json:"entity"`
}

// AuditEntryResponse is one serialized audit trail entry.
type AuditEntryResponse struct {
	ID        uint                   `json:"id"`
	UserID    uint                   `json:"user_id"`
	UserName  string                 `json:"user_name"`
	RoleID    uint                   `json:"role_id"`
	CourseID  uint                   `json:"course_id"`
	SchoolID  uint                   `json:"school_id"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  *uint                  `json:"entity_id"`
	Detail    string                 `json:"detail"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// AuditListResponse pages through the audit trail.
type AuditListResponse struct {
	Entries  []AuditEntryResponse `json:"entries"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// NewAuditEntryResponse maps an audit entry to its response shape.
func NewAuditEntryResponse(entry models.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		UserName:  entry.UserName,
		RoleID:    entry.RoleID,
		CourseID:  entry.CourseID,
		SchoolID:  entry.SchoolID,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		Detail:    entry.Detail,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}
