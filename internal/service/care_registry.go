package service

import (
	"context"
	"errors"

	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CareRegistry records which doctors are assigned to which patients
type CareRegistry interface {
	// IsAssigned is true iff an active relationship exists for exactly this pair.
	IsAssigned(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)
	// Assign inserts an active relationship unless one already exists for the
	// pair in any status. created is false when nothing was written. tx may be
	// nil; a caller's transaction must be rolled back when created is false.
	Assign(ctx context.Context, tx *gorm.DB, doctorID, patientID uuid.UUID) (created bool, err error)
	PatientsOf(ctx context.Context, doctorID uuid.UUID) ([]entity.User, error)
	DoctorsOf(ctx context.Context, patientID uuid.UUID) ([]entity.User, error)
}

type careRegistry struct {
	db       *gorm.DB
	log      *logrus.Logger
	careRepo repository.CareRelationshipRepository
	userRepo repository.UserRepository
}

func NewCareRegistry(
	db *gorm.DB,
	log *logrus.Logger,
	careRepo repository.CareRelationshipRepository,
	userRepo repository.UserRepository,
) CareRegistry {
	return &careRegistry{
		db:       db,
		log:      log,
		careRepo: careRepo,
		userRepo: userRepo,
	}
}

func (s *careRegistry) IsAssigned(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	ok, err := s.careRepo.ExistsActive(ctx, s.db, doctorID, patientID)
	if err != nil {
		s.log.Warnf("Failed to check care relationship %s -> %s: %+v", doctorID, patientID, err)
		return false, apperr.Upstream("check care relationship", err)
	}
	return ok, nil
}

func (s *careRegistry) Assign(ctx context.Context, tx *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	if tx == nil {
		tx = s.db
	}

	existing, err := s.careRepo.FindByPair(ctx, tx, doctorID, patientID)
	if err != nil {
		s.log.Warnf("Failed to find care relationship %s -> %s: %+v", doctorID, patientID, err)
		return false, apperr.Upstream("find care relationship", err)
	}
	if existing != nil {
		return false, nil
	}

	rel := &entity.CareRelationship{
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    entity.CareStatusActive,
	}
	if err := s.careRepo.Create(ctx, tx, rel); err != nil {
		// a concurrent assign won the insert
		if errors.Is(err, repository.ErrDuplicateKey) {
			return false, nil
		}
		s.log.Warnf("Failed to create care relationship %s -> %s: %+v", doctorID, patientID, err)
		return false, apperr.Upstream("create care relationship", err)
	}

	return true, nil
}

func (s *careRegistry) PatientsOf(ctx context.Context, doctorID uuid.UUID) ([]entity.User, error) {
	ids, err := s.careRepo.FindActivePatientIDs(ctx, s.db, doctorID)
	if err != nil {
		s.log.Warnf("Failed to list patients of doctor %s: %+v", doctorID, err)
		return nil, apperr.Upstream("list assigned patients", err)
	}
	return s.users(ctx, ids)
}

func (s *careRegistry) DoctorsOf(ctx context.Context, patientID uuid.UUID) ([]entity.User, error) {
	ids, err := s.careRepo.FindActiveDoctorIDs(ctx, s.db, patientID)
	if err != nil {
		s.log.Warnf("Failed to list doctors of patient %s: %+v", patientID, err)
		return nil, apperr.Upstream("list assigned doctors", err)
	}
	return s.users(ctx, ids)
}

func (s *careRegistry) users(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		s.log.Warnf("Failed to load users: %+v", err)
		return nil, apperr.Upstream("load users", err)
	}
	return users, nil
}
