package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CareRelationshipRepository interface {
	Create(ctx context.Context, db *gorm.DB, rel *entity.CareRelationship) error
	FindByPair(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.CareRelationship, error)
	ExistsActive(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error)
	FindActivePatientIDs(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]uuid.UUID, error)
	FindActiveDoctorIDs(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]uuid.UUID, error)
}
