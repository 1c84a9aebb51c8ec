package repository

import (
	"context"
	"errors"

	"neuropharm-backend/internal/domain/entity"
	domainRepo "neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type geneticProfileRepository struct{}

func NewGeneticProfileRepository() domainRepo.GeneticProfileRepository {
	return &geneticProfileRepository{}
}

func (r *geneticProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.GeneticProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *geneticProfileRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.GeneticProfile, error) {
	var profile entity.GeneticProfile
	err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *geneticProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]entity.GeneticProfile, error) {
	var profiles []entity.GeneticProfile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *geneticProfileRepository) FindLatestByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.GeneticProfile, error) {
	var profile entity.GeneticProfile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
