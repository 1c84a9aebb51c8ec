package repository

import (
	"context"
	"errors"

	"neuropharm-backend/internal/domain/entity"
	domainRepo "neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type evaluationRepository struct{}

func NewEvaluationRepository() domainRepo.EvaluationRepository {
	return &evaluationRepository{}
}

func (r *evaluationRepository) Create(ctx context.Context, db *gorm.DB, evaluation *entity.Evaluation) error {
	return db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Evaluation, error) {
	var evaluation entity.Evaluation
	err := db.WithContext(ctx).Where("id = ?", id).First(&evaluation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]entity.Evaluation, error) {
	var evaluations []entity.Evaluation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("evaluated_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}
