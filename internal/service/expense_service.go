package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/models"
	"github.com/noah-isme/pagos-go-api/internal/repository"
)

// ErrExpenseNotFound indicates the targeted expense row does not exist.
var ErrExpenseNotFound = errors.New("expense not found")

// ErrForbidden indicates the actor's role is not allowed to perform the
// operation. Refused attempts are not written to the audit trail.
var ErrForbidden = errors.New("operation not allowed for role")

// FileStore abstracts the external blob store holding receipt files.
// Upload returns the public URL and the storage ID used for removal.
type FileStore interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, string, error)
	Destroy(ctx context.Context, publicID string) error
}

var allowedReceiptTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

// ExpenseService manages the expense ledger and its stored receipts.
type ExpenseService interface {
	List(ctx context.Context) ([]dto.ExpenseResponse, error)
	Create(ctx context.Context, payload dto.ExpenseCreateRequest, file *multipart.FileHeader, tokenActor Actor) (dto.ExpenseResponse, error)
	Delete(ctx context.Context, id uint, payload dto.ExpenseDeleteRequest, tokenActor Actor) error
}

type expenseService struct {
	repo        repository.ExpenseRepository
	files       FileStore
	audit       AuditRecorder
	validator   *validator.Validate
	deleteRoles map[uint]struct{}
	logger      zerolog.Logger
}

// NewExpenseService builds the expense service. Only actors whose role
// is in deleteRoles may remove expense rows.
func NewExpenseService(repo repository.ExpenseRepository, files FileStore, audit AuditRecorder, validate *validator.Validate, deleteRoles []uint, logger zerolog.Logger) ExpenseService {
	roles := make(map[uint]struct{}, len(deleteRoles))
	for _, role := range deleteRoles {
		roles[role] = struct{}{}
	}

	return &expenseService{
		repo:        repo,
		files:       files,
		audit:       audit,
		validator:   validate,
		deleteRoles: roles,
		logger:      logger.With().Str("component", "expense_service").Logger(),
	}
}

func (s *expenseService) List(ctx context.Context) ([]dto.ExpenseResponse, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewExpenseResponseSlice(expenses), nil
}

func (s *expenseService) Create(ctx context.Context, payload dto.ExpenseCreateRequest, file *multipart.FileHeader, tokenActor Actor) (dto.ExpenseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExpenseResponse{}, err
	}

	amount, err := parseAmount(payload.Amount)
	if err != nil {
		return dto.ExpenseResponse{}, err
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		return dto.ExpenseResponse{}, err
	}

	expense := models.Expense{
		Description: payload.Description,
		Amount:      amount,
		Date:        date,
	}

	if file != nil {
		url, publicID, err := s.storeReceipt(ctx, file)
		if err != nil {
			return dto.ExpenseResponse{}, err
		}
		expense.ReceiptURL = url
		expense.ReceiptPublicID = publicID
	}

	if err := s.repo.Create(ctx, &expense); err != nil {
		return dto.ExpenseResponse{}, err
	}

	s.logger.Info().Uint("expense_id", expense.ID).Msg("expense recorded")

	s.audit.Record(ctx, AuditEntry{
		Actor:    ResolveActor(tokenActor, payload.Actor),
		Action:   models.AuditActionCreate,
		Entity:   models.AuditEntityExpense,
		EntityID: &expense.ID,
		Detail:   fmt.Sprintf("expense of %s recorded: %s", amount.StringFixed(2), expense.Description),
	})

	return dto.NewExpenseResponse(expense), nil
}

// Delete removes the expense row inside a transaction, then best-effort
// removes the stored receipt and appends the audit entry. Once the row
// delete has committed, neither a file-store failure nor an audit
// failure reverses it or changes the reported outcome.
func (s *expenseService) Delete(ctx context.Context, id uint, payload dto.ExpenseDeleteRequest, tokenActor Actor) error {
	actor := ResolveActor(tokenActor, payload.Actor)
	if _, ok := s.deleteRoles[actor.RoleID]; !ok {
		return ErrForbidden
	}

	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpenseNotFound
		}

		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpenseNotFound
		}

		return err
	}

	s.logger.Info().Uint("expense_id", id).Msg("expense deleted")

	if expense.ReceiptPublicID != "" {
		if err := s.files.Destroy(ctx, expense.ReceiptPublicID); err != nil {
			s.logger.Warn().Err(err).
				Uint("expense_id", id).
				Str("public_id", expense.ReceiptPublicID).
				Msg("failed to remove stored receipt")
		}
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:    actor,
		Action:   models.AuditActionDelete,
		Entity:   models.AuditEntityExpense,
		EntityID: &id,
		Detail:   fmt.Sprintf("expense %d deleted: %s", id, expense.Description),
	})

	return nil
}

func (s *expenseService) storeReceipt(ctx context.Context, file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open receipt: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", fmt.Errorf("failed to read receipt: %w", err)
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedReceiptTypes...) {
		return "", "", fmt.Errorf("%w: unsupported receipt type %s", ErrValidation, mime.String())
	}

	url, publicID, err := s.files.Upload(ctx, file.Filename, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("failed to store receipt: %w", err)
	}

	return url, publicID, nil
}
