package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/models"
)

type memoryExpenseRepo struct {
	nextID   uint
	expenses []models.Expense
}

func (m *memoryExpenseRepo) List(ctx context.Context) ([]models.Expense, error) {
	return append([]models.Expense(nil), m.expenses...), nil
}

func (m *memoryExpenseRepo) GetByID(ctx context.Context, id uint) (models.Expense, error) {
	for _, expense := range m.expenses {
		if expense.ID == id {
			return expense, nil
		}
	}
	return models.Expense{}, gorm.ErrRecordNotFound
}

func (m *memoryExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	m.nextID++
	expense.ID = m.nextID
	m.expenses = append(m.expenses, *expense)
	return nil
}

func (m *memoryExpenseRepo) Delete(ctx context.Context, id uint) error {
	for i, expense := range m.expenses {
		if expense.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubFileStore struct {
	destroyErr error
	destroyed  []string
}

func (s *stubFileStore) Upload(ctx context.Context, name string, reader io.Reader) (string, string, error) {
	return "https://cdn.example.com/" + name, "receipts/" + name, nil
}

func (s *stubFileStore) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return s.destroyErr
}

func seedExpense(repo *memoryExpenseRepo, publicID string) models.Expense {
	expense := models.Expense{
		Description:     "Chalk and markers",
		Amount:          decimal.NewFromInt(320),
		Date:            time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC),
		ReceiptPublicID: publicID,
	}
	_ = repo.Create(context.Background(), &expense)
	return expense
}

func TestExpenseServiceDeleteRefusedForUnlistedRole(t *testing.T) {
	repo := &memoryExpenseRepo{}
	seedExpense(repo, "")
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, &stubFileStore{}, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{1, 2}, testLogger())

	err := svc.Delete(context.Background(), 1, dto.ExpenseDeleteRequest{}, Actor{UserID: 3, RoleID: 5})
	require.ErrorIs(t, err, ErrForbidden)
	// The row survives and the refused attempt leaves no audit entry.
	require.Len(t, repo.expenses, 1)
	require.Empty(t, audit.entries)
}

func TestExpenseServiceDeleteNotFound(t *testing.T) {
	svc := NewExpenseService(&memoryExpenseRepo{}, &stubFileStore{}, &recordingAudit{}, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	err := svc.Delete(context.Background(), 99, dto.ExpenseDeleteRequest{}, Actor{UserID: 3, RoleID: 1})
	require.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestExpenseServiceDeleteRemovesStoredReceipt(t *testing.T) {
	repo := &memoryExpenseRepo{}
	seedExpense(repo, "receipts/chalk.jpg")
	files := &stubFileStore{}
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, files, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	err := svc.Delete(context.Background(), 1, dto.ExpenseDeleteRequest{}, Actor{UserID: 3, RoleID: 1})
	require.NoError(t, err)
	require.Empty(t, repo.expenses)
	require.Equal(t, []string{"receipts/chalk.jpg"}, files.destroyed)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionDelete, audit.entries[0].Action)
	require.Equal(t, models.AuditEntityExpense, audit.entries[0].Entity)
}

func TestExpenseServiceDeleteSucceedsWhenFileStoreFails(t *testing.T) {
	repo := &memoryExpenseRepo{}
	seedExpense(repo, "receipts/chalk.jpg")
	files := &stubFileStore{destroyErr: errors.New("cdn unreachable")}
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, files, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	err := svc.Delete(context.Background(), 1, dto.ExpenseDeleteRequest{}, Actor{UserID: 3, RoleID: 1})
	require.NoError(t, err)
	require.Empty(t, repo.expenses)
	require.Len(t, audit.entries, 1)
}

func TestExpenseServiceDeleteRoleFromPayloadFallback(t *testing.T) {
	repo := &memoryExpenseRepo{}
	seedExpense(repo, "")
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, &stubFileStore{}, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{2}, testLogger())

	// No token identity: the caller-supplied actor decides the role check.
	err := svc.Delete(context.Background(), 1, dto.ExpenseDeleteRequest{
		Actor: dto.ActorPayload{UserID: 8, UserName: "Secretary", RoleID: 2},
	}, Actor{})
	require.NoError(t, err)
	require.Empty(t, repo.expenses)
	require.Equal(t, uint(8), audit.entries[0].Actor.UserID)
}

func TestExpenseServiceCreateActorFallback(t *testing.T) {
	repo := &memoryExpenseRepo{}
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, &stubFileStore{}, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	// No token identity: the caller-supplied actor is attributed.
	_, err := svc.Create(context.Background(), dto.ExpenseCreateRequest{
		Description: "Window repair",
		Amount:      "900",
		Date:        "2025-06-01",
		Actor:       dto.ActorPayload{UserID: 4, UserName: "Secretary", RoleID: 2},
	}, nil, Actor{})
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	require.Equal(t, uint(4), audit.entries[0].Actor.UserID)
	require.Equal(t, "Secretary", audit.entries[0].Actor.UserName)
}

func TestExpenseServiceCreateTokenActorWinsOverPayload(t *testing.T) {
	repo := &memoryExpenseRepo{}
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, &stubFileStore{}, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	token := Actor{UserID: 9, UserName: "Admin", RoleID: 1}
	_, err := svc.Create(context.Background(), dto.ExpenseCreateRequest{
		Description: "Window repair",
		Amount:      "900",
		Date:        "2025-06-01",
		Actor:       dto.ActorPayload{UserID: 77, UserName: "Impostor"},
	}, nil, token)
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	require.Equal(t, token, audit.entries[0].Actor)
}

func TestExpenseServiceCreateWithoutReceipt(t *testing.T) {
	repo := &memoryExpenseRepo{}
	audit := &recordingAudit{}
	svc := NewExpenseService(repo, &stubFileStore{}, audit, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	response, err := svc.Create(context.Background(), dto.ExpenseCreateRequest{
		Description: "Projector bulb",
		Amount:      "1250.75",
		Date:        "2025-04-01",
	}, nil, Actor{UserID: 1, RoleID: 1})
	require.NoError(t, err)
	require.Equal(t, "1250.75", response.Amount)
	require.Empty(t, response.ReceiptURL)
	require.Len(t, repo.expenses, 1)
	require.Len(t, audit.entries, 1)
}

func TestExpenseServiceCreateRejectsInvalidAmount(t *testing.T) {
	repo := &memoryExpenseRepo{}
	svc := NewExpenseService(repo, &stubFileStore{}, &recordingAudit{}, validator.New(validator.WithRequiredStructEnabled()), []uint{1}, testLogger())

	_, err := svc.Create(context.Background(), dto.ExpenseCreateRequest{
		Description: "Projector bulb",
		Amount:      "-10",
		Date:        "2025-04-01",
	}, nil, Actor{UserID: 1})
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, repo.expenses)
}
