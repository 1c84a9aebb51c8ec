package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GeneticProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.GeneticProfile) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.GeneticProfile, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]entity.GeneticProfile, error)
	FindLatestByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.GeneticProfile, error)
}
