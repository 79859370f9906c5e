package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// PaymentFilter narrows ledger queries.
type PaymentFilter struct {
	StudentID *uint
	ConceptID *uint
	Status    *string
}

// PaymentRepository persists the payment ledger. Upsert is keyed on the
// (student_id, concept_id) pair so repeated saves overlay the cell
// instead of accumulating duplicates.
type PaymentRepository interface {
	List(ctx context.Context, filter PaymentFilter) ([]models.PaymentRecord, error)
	GetByID(ctx context.Context, id uint) (models.PaymentRecord, error)
	Upsert(ctx context.Context, record *models.PaymentRecord) error
	Update(ctx context.Context, record *models.PaymentRecord) error
	Delete(ctx context.Context, id uint) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository instantiates the repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter) ([]models.PaymentRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentRecord{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.ConceptID != nil {
		query = query.Where("concept_id = ?", *filter.ConceptID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var records []models.PaymentRecord
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return models.PaymentRecord{}, err
	}

	return record, nil
}

func (r *paymentRepository) Upsert(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "concept_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "date", "status", "updated_at"}),
	}).Create(record).Error
}

func (r *paymentRepository) Update(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentRecord{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
