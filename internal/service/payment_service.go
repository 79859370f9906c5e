package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/models"
	"github.com/noah-isme/pagos-go-api/internal/repository"
)

// ErrPaymentNotFound indicates the targeted ledger entry does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrValidation marks client-input failures rejected before any write.
var ErrValidation = errors.New("validation failed")

// PaymentService is the mutation gateway for the payment ledger. Every
// write goes through it and is followed by a best-effort audit append;
// audit failures never affect the outcome of the primary write.
type PaymentService interface {
	List(ctx context.Context, filter repository.PaymentFilter) ([]dto.PaymentResponse, error)
	Create(ctx context.Context, payload dto.PaymentCreateRequest, tokenActor Actor) (dto.PaymentResponse, error)
	Update(ctx context.Context, id uint, payload dto.PaymentUpdateRequest, tokenActor Actor) (dto.PaymentResponse, error)
	Delete(ctx context.Context, id uint, payload dto.PaymentDeleteRequest, tokenActor Actor) error
}

type paymentService struct {
	repo      repository.PaymentRepository
	audit     AuditRecorder
	cache     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPaymentService builds the ledger mutation gateway. The cache
// client may be nil; when present, every successful mutation drops the
// dashboard summary so reads reflect the write immediately.
func NewPaymentService(repo repository.PaymentRepository, audit AuditRecorder, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) PaymentService {
	return &paymentService{
		repo:      repo,
		audit:     audit,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "payment_service").Logger(),
	}
}

// invalidateSummary is best-effort: a failed drop only extends
// staleness up to the cache TTL.
func (s *paymentService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, dashboardSummaryCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

func (s *paymentService) List(ctx context.Context, filter repository.PaymentFilter) ([]dto.PaymentResponse, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewPaymentResponseSlice(records), nil
}

func (s *paymentService) Create(ctx context.Context, payload dto.PaymentCreateRequest, tokenActor Actor) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	amount, err := parseAmount(payload.Amount)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	record := models.PaymentRecord{
		StudentID: payload.StudentID,
		ConceptID: payload.ConceptID,
		Amount:    amount,
		Date:      date,
		Status:    status,
	}

	// Upsert keyed on (student, concept): a repeated save overlays the
	// pair instead of creating a duplicate row.
	if err := s.repo.Upsert(ctx, &record); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().
		Uint("payment_id", record.ID).
		Uint("student_id", record.StudentID).
		Uint("concept_id", record.ConceptID).
		Msg("payment recorded")

	s.invalidateSummary(ctx)

	s.audit.Record(ctx, AuditEntry{
		Actor:    ResolveActor(tokenActor, payload.Actor),
		Action:   models.AuditActionCreate,
		Entity:   models.AuditEntityPayment,
		EntityID: &record.ID,
		Detail:   fmt.Sprintf("payment of %s recorded for student %d, concept %d", amount.StringFixed(2), record.StudentID, record.ConceptID),
		Metadata: map[string]interface{}{"status": status},
	})

	return dto.NewPaymentResponse(record), nil
}

func (s *paymentService) Update(ctx context.Context, id uint, payload dto.PaymentUpdateRequest, tokenActor Actor) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}

		return dto.PaymentResponse{}, err
	}

	if payload.Amount != nil {
		amount, err := parseAmount(*payload.Amount)
		if err != nil {
			return dto.PaymentResponse{}, err
		}
		record.Amount = amount
	}

	if payload.Date != nil {
		date, err := parseDate(*payload.Date)
		if err != nil {
			return dto.PaymentResponse{}, err
		}
		record.Date = date
	}

	if payload.Status != nil {
		record.Status = *payload.Status
	}

	if err := s.repo.Update(ctx, &record); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().Uint("payment_id", record.ID).Msg("payment updated")

	s.invalidateSummary(ctx)

	s.audit.Record(ctx, AuditEntry{
		Actor:    ResolveActor(tokenActor, payload.Actor),
		Action:   models.AuditActionEdit,
		Entity:   models.AuditEntityPayment,
		EntityID: &record.ID,
		Detail:   fmt.Sprintf("payment %d updated to %s (%s)", record.ID, record.Amount.StringFixed(2), record.Status),
	})

	return dto.NewPaymentResponse(record), nil
}

func (s *paymentService) Delete(ctx context.Context, id uint, payload dto.PaymentDeleteRequest, tokenActor Actor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}

		return err
	}

	s.logger.Info().Uint("payment_id", id).Msg("payment deleted")

	s.invalidateSummary(ctx)

	s.audit.Record(ctx, AuditEntry{
		Actor:    ResolveActor(tokenActor, payload.Actor),
		Action:   models.AuditActionDelete,
		Entity:   models.AuditEntityPayment,
		EntityID: &id,
		Detail:   fmt.Sprintf("payment %d deleted", id),
	})

	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", ErrValidation, raw)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	if date, err := time.Parse("2006-01-02", raw); err == nil {
		return date, nil
	}

	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
	}

	return date, nil
}
