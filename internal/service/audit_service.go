package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/models"
	"github.com/noah-isme/pagos-go-api/internal/repository"
)

// Actor is the identity attributed to a mutation in the audit trail.
type Actor struct {
	UserID   uint
	UserName string
	RoleID   uint
	CourseID uint
	SchoolID uint
}

// Verified reports whether the actor came from an authenticated token.
func (a Actor) Verified() bool {
	return a.UserID != 0
}

// ResolveActor picks the audit identity for a mutation. The verified
// token identity is the source of truth; caller-supplied fields are
// accepted only when no token identity is available.
func ResolveActor(token Actor, fallback dto.ActorPayload) Actor {
	if token.Verified() {
		return token
	}

	return Actor{
		UserID:   fallback.UserID,
		UserName: fallback.UserName,
		RoleID:   fallback.RoleID,
		CourseID: fallback.CourseID,
		SchoolID: fallback.SchoolID,
	}
}

// AuditEntry captures the details of one mutation for the trail.
type AuditEntry struct {
	Actor    Actor
	Action   string
	Entity   string
	EntityID *uint
	Detail   string
	Metadata map[string]interface{}
}

// AuditRecorder appends entries to the audit trail. Appends are always
// best-effort: a failed append is logged and never surfaced, so the
// primary mutation's outcome is unaffected.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditService records and queries the append-only audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAuditService constructs the audit trail service.
func NewAuditService(repo repository.AuditLogRepository, validate *validator.Validate, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	if strings.TrimSpace(entry.Action) == "" || strings.TrimSpace(entry.Entity) == "" {
		s.logger.Warn().
			Str("action", entry.Action).
			Str("entity", entry.Entity).
			Msg("dropping audit entry with missing action or entity")
		return
	}

	row := models.AuditLogEntry{
		UserID:   entry.Actor.UserID,
		UserName: s.sanitizer.Sanitize(entry.Actor.UserName),
		RoleID:   entry.Actor.RoleID,
		CourseID: entry.Actor.CourseID,
		SchoolID: entry.Actor.SchoolID,
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
		Detail:   s.sanitizer.Sanitize(entry.Detail),
	}

	if len(entry.Metadata) > 0 {
		row.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.repo.Create(ctx, &row); err != nil {
		s.logger.Warn().Err(err).
			Str("action", entry.Action).
			Str("entity", entry.Entity).
			Msg("failed to append audit entry")
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuditListResponse{}, err
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	entries, total, err := s.repo.List(ctx, repository.AuditLogFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   req.UserID,
		Action:   req.Action,
		Entity:   req.Entity,
	})
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	responses := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditEntryResponse(entry))
	}

	return dto.AuditListResponse{
		Entries:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
