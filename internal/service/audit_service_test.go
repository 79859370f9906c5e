package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/models"
	"github.com/noah-isme/pagos-go-api/internal/repository"
)

type memoryAuditLogRepo struct {
	entries []models.AuditLogEntry
}

func (m *memoryAuditLogRepo) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryAuditLogRepo) List(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	return append([]models.AuditLogEntry(nil), m.entries...), int64(len(m.entries)), nil
}

func TestAuditServiceRecordSanitizesDetail(t *testing.T) {
	repo := &memoryAuditLogRepo{}
	svc := NewAuditService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	svc.Record(context.Background(), AuditEntry{
		Actor:  Actor{UserID: 1, UserName: "<script>alert(1)</script>Admin"},
		Action: models.AuditActionCreate,
		Entity: models.AuditEntityPayment,
		Detail: "payment recorded <b>bold</b>",
	})

	require.Len(t, repo.entries, 1)
	require.Equal(t, "Admin", repo.entries[0].UserName)
	require.Equal(t, "payment recorded bold", repo.entries[0].Detail)
}

func TestAuditServiceRecordDropsIncompleteEntries(t *testing.T) {
	repo := &memoryAuditLogRepo{}
	svc := NewAuditService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	svc.Record(context.Background(), AuditEntry{Actor: Actor{UserID: 1}, Detail: "no action"})
	require.Empty(t, repo.entries)
}

func TestAuditServiceRecordStoresMetadata(t *testing.T) {
	repo := &memoryAuditLogRepo{}
	svc := NewAuditService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	id := uint(7)
	svc.Record(context.Background(), AuditEntry{
		Actor:    Actor{UserID: 1, RoleID: 2},
		Action:   models.AuditActionEdit,
		Entity:   models.AuditEntityPayment,
		EntityID: &id,
		Metadata: map[string]interface{}{"status": "paid"},
	})

	require.Len(t, repo.entries, 1)
	require.Equal(t, "paid", repo.entries[0].Metadata["status"])
	require.Equal(t, &id, repo.entries[0].EntityID)
}

func TestAuditServiceListDefaultsPagination(t *testing.T) {
	repo := &memoryAuditLogRepo{}
	svc := NewAuditService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	svc.Record(context.Background(), AuditEntry{
		Actor:  Actor{UserID: 1},
		Action: models.AuditActionDelete,
		Entity: models.AuditEntityExpense,
	})

	response, err := svc.List(context.Background(), dto.AuditListRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, response.Page)
	require.Equal(t, 20, response.PageSize)
	require.EqualValues(t, 1, response.Total)
	require.Len(t, response.Entries, 1)
}
