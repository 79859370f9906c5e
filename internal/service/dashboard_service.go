package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/models"
	"github.com/noah-isme/pagos-go-api/internal/reconcile"
	"github.com/noah-isme/pagos-go-api/internal/repository"
)

// ErrStudentNotFound indicates the requested student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// dashboardSummaryCacheKey holds the cached summary. Ledger mutations
// drop the key so a summary read never trails a write by more than one
// in-flight request; the TTL only bounds staleness when invalidation
// itself fails.
const dashboardSummaryCacheKey = "dashboard:summary"

// DashboardService produces the reconciled payment dashboard. Both the
// summary matrix and the per-student detail view run through the same
// reconcile package; each read works on a fresh snapshot and shares no
// state with other requests.
type DashboardService interface {
	GetSummary(ctx context.Context) (dto.DashboardSummaryResponse, error)
	GetStudentDetail(ctx context.Context, studentID uint) (dto.StudentDetailResponse, error)
}

type dashboardService struct {
	students repository.StudentRepository
	concepts repository.ConceptRepository
	payments repository.PaymentRepository
	policy   reconcile.OverduePolicy
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(students repository.StudentRepository, concepts repository.ConceptRepository, payments repository.PaymentRepository, policy reconcile.OverduePolicy, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		students: students,
		concepts: concepts,
		payments: payments,
		policy:   policy,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetSummary(ctx context.Context) (dto.DashboardSummaryResponse, error) {
	const cacheKey = dashboardSummaryCacheKey
	tracer := otel.Tracer("github.com/noah-isme/pagos-go-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.reconcile")
	span.SetAttributes(attribute.String("dashboard.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.DashboardSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
	}

	students, concepts, records, err := s.loadSnapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot_load_failed")
		return dto.DashboardSummaryResponse{}, err
	}

	response := s.buildSummary(students, concepts, records)
	span.SetAttributes(
		attribute.Int("dashboard.students", len(students)),
		attribute.Int("dashboard.concepts", len(concepts)),
		attribute.Int("dashboard.ledger_entries", len(records)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *dashboardService) GetStudentDetail(ctx context.Context, studentID uint) (dto.StudentDetailResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDetailResponse{}, ErrStudentNotFound
		}

		return dto.StudentDetailResponse{}, err
	}

	concepts, err := s.concepts.List(ctx)
	if err != nil {
		return dto.StudentDetailResponse{}, err
	}

	records, err := s.payments.List(ctx, repository.PaymentFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDetailResponse{}, err
	}

	now := s.now()
	roster := []models.Student{student}
	matrix := reconcile.BuildMatrix(roster, concepts, records, now, s.policy)
	stats := reconcile.Aggregate(records, reconcile.OverduePairs(roster, concepts, now, s.policy))

	return dto.StudentDetailResponse{
		StudentID:    student.ID,
		StudentName:  student.Name,
		Cells:        buildCells(matrix[student.ID], concepts, reconcile.IndexLedger(records), student.ID),
		TotalPaid:    stats.TotalPaid.StringFixed(2),
		OverdueCount: stats.OverdueCount,
		GeneratedAt:  now,
	}, nil
}

func (s *dashboardService) loadSnapshot(ctx context.Context) ([]models.Student, []models.Concept, []models.PaymentRecord, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load students: %w", err)
	}

	concepts, err := s.concepts.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	records, err := s.payments.List(ctx, repository.PaymentFilter{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return students, concepts, records, nil
}

func (s *dashboardService) buildSummary(students []models.Student, concepts []models.Concept, records []models.PaymentRecord) dto.DashboardSummaryResponse {
	now := s.now()
	matrix := reconcile.BuildMatrix(students, concepts, records, now, s.policy)
	overdue := reconcile.OverduePairs(students, concepts, now, s.policy)
	stats := reconcile.Aggregate(records, overdue)
	ledger := reconcile.IndexLedger(records)

	sorted := make([]models.Student, len(students))
	copy(sorted, students)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]dto.StudentRow, 0, len(sorted))
	for _, student := range sorted {
		rows = append(rows, dto.StudentRow{
			StudentID:   student.ID,
			StudentName: student.Name,
			Cells:       buildCells(matrix[student.ID], concepts, ledger, student.ID),
		})
	}

	return dto.DashboardSummaryResponse{
		Stats: dto.StatsResponse{
			TotalPaid:      stats.TotalPaid.StringFixed(2),
			CompletedCount: stats.CompletedCount,
			OverdueCount:   stats.OverdueCount,
			OverdueAmount:  stats.OverdueAmount.StringFixed(2),
		},
		Rows:        rows,
		GeneratedAt: now,
		CacheHit:    false,
	}
}

// buildCells renders one student's matrix row, concepts in registry
// order, attaching the recorded amount where a ledger entry exists.
func buildCells(row map[uint]reconcile.CellStatus, concepts []models.Concept, ledger map[reconcile.PairKey]models.PaymentRecord, studentID uint) []dto.CellEntry {
	cells := make([]dto.CellEntry, 0, len(concepts))
	for _, concept := range concepts {
		entry := dto.CellEntry{
			ConceptID:   concept.ID,
			ConceptCode: concept.Code,
			Status:      string(row[concept.ID]),
		}

		if record, ok := ledger[reconcile.PairKey{StudentID: studentID, ConceptID: concept.ID}]; ok {
			amount := record.Amount.StringFixed(2)
			entry.Amount = &amount
		}

		cells = append(cells, entry)
	}

	return cells
}
