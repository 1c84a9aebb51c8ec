package repository

import (
	"context"
	"errors"

	"neuropharm-backend/internal/domain/entity"
	domainRepo "neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type careRelationshipRepository struct{}

func NewCareRelationshipRepository() domainRepo.CareRelationshipRepository {
	return &careRelationshipRepository{}
}

func (r *careRelationshipRepository) Create(ctx context.Context, db *gorm.DB, rel *entity.CareRelationship) error {
	return translateError(db.WithContext(ctx).Create(rel).Error)
}

// FindByPair returns the relationship for the pair in any status
func (r *careRelationshipRepository) FindByPair(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.CareRelationship, error) {
	var rel entity.CareRelationship
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

func (r *careRelationshipRepository) ExistsActive(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.CareRelationship{}).
		Where("doctor_id = ? AND patient_id = ? AND status = ?", doctorID, patientID, entity.CareStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *careRelationshipRepository) FindActivePatientIDs(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&entity.CareRelationship{}).
		Where("doctor_id = ? AND status = ?", doctorID, entity.CareStatusActive).
		Pluck("patient_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *careRelationshipRepository) FindActiveDoctorIDs(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&entity.CareRelationship{}).
		Where("patient_id = ? AND status = ?", patientID, entity.CareStatusActive).
		Pluck("doctor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
