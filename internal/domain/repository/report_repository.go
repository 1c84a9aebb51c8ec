package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, db *gorm.DB, report *entity.Report) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Report, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Report, error)
}
