package usecase

import (
	"context"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/domain/repository"
	"neuropharm-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	MsgPatientAssigned        = "Patient assigned successfully"
	MsgPatientAlreadyAssigned = "Patient is already assigned to this doctor"
)

type AdminUsecase interface {
	// AssignPatient returns the outcome and the message describing it
	AssignPatient(ctx context.Context, actor *entity.User, req *dto.AssignPatientRequest) (*dto.AssignPatientResponse, string, error)
}

type adminUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	upstream     upstream
	userRepo     repository.UserRepository
	registry     service.CareRegistry
	policy       service.AccessPolicy
	auditService service.AuditService
}

func NewAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	userRepo repository.UserRepository,
	registry service.CareRegistry,
	policy service.AccessPolicy,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		db:           db,
		log:          log,
		upstream:     upstream{timeout: cfg.Upstream.Timeout},
		userRepo:     userRepo,
		registry:     registry,
		policy:       policy,
		auditService: auditService,
	}
}

func (u *adminUsecase) AssignPatient(ctx context.Context, actor *entity.User, req *dto.AssignPatientRequest) (*dto.AssignPatientResponse, string, error) {
	if err := u.policy.RequireRole(actor, entity.RoleAdmin).Err(); err != nil {
		return nil, "", err
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, "", ErrInvalidID
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, "", ErrInvalidID
	}

	doctor, err := u.userRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, "", apperr.Upstream("find doctor", err)
	}
	if doctor == nil {
		return nil, "", ErrDoctorNotFound
	}
	if !u.policy.HasRole(doctor, entity.RoleDoctor) {
		return nil, "", ErrNotADoctor
	}

	patient, err := u.userRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, "", apperr.Upstream("find patient", err)
	}
	if patient == nil {
		return nil, "", ErrPatientNotFound
	}
	if !u.policy.HasRole(patient, entity.RolePatient) {
		return nil, "", ErrNotAPatient
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	created, err := u.registry.Assign(ctx, tx, doctorID, patientID)
	if err != nil {
		return nil, "", err
	}

	resp := &dto.AssignPatientResponse{
		DoctorID:  doctorID.String(),
		PatientID: patientID.String(),
		Created:   created,
	}
	if !created {
		return resp, MsgPatientAlreadyAssigned, nil
	}

	if err := u.auditService.Record(ctx, tx, &actor.ID, entity.AuditActionPatientAssign, "care_relationship", doctorID.String()+":"+patientID.String(), map[string]interface{}{
		"doctor_id":  doctorID.String(),
		"patient_id": patientID.String(),
	}); err != nil {
		return nil, "", apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, "", apperr.Upstream("commit patient assignment", err)
	}

	return resp, MsgPatientAssigned, nil
}
