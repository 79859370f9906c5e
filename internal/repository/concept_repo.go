package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// ConceptRepository exposes the billing-concept registry. Code
// uniqueness is enforced by the backing store's unique index.
type ConceptRepository interface {
	List(ctx context.Context) ([]models.Concept, error)
	GetByID(ctx context.Context, id uint) (models.Concept, error)
	Create(ctx context.Context, concept *models.Concept) error
}

type conceptRepository struct {
	db *gorm.DB
}

// NewConceptRepository instantiates the repository.
func NewConceptRepository(db *gorm.DB) ConceptRepository {
	return &conceptRepository{db: db}
}

func (r *conceptRepository) List(ctx context.Context) ([]models.Concept, error) {
	var concepts []models.Concept
	if err := r.db.WithContext(ctx).Order("schedule_order ASC, code ASC").Find(&concepts).Error; err != nil {
		return nil, err
	}

	return concepts, nil
}

func (r *conceptRepository) GetByID(ctx context.Context, id uint) (models.Concept, error) {
	var concept models.Concept
	if err := r.db.WithContext(ctx).First(&concept, id).Error; err != nil {
		return models.Concept{}, err
	}

	return concept, nil
}

func (r *conceptRepository) Create(ctx context.Context, concept *models.Concept) error {
	return r.db.WithContext(ctx).Create(concept).Error
}
