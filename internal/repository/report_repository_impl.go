package repository

import (
	"context"
	"errors"

	"neuropharm-backend/internal/domain/entity"
	domainRepo "neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reportRepository struct{}

func NewReportRepository() domainRepo.ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(ctx context.Context, db *gorm.DB, report *entity.Report) error {
	return db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Report, error) {
	var report entity.Report
	err := db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// FindByUserID returns the newest reports first. A limit <= 0 returns all of them.
func (r *reportRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Report, error) {
	var reports []entity.Report
	query := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
