package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationRepository interface {
	Create(ctx context.Context, db *gorm.DB, evaluation *entity.Evaluation) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Evaluation, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]entity.Evaluation, error)
}
