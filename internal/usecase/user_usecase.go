package usecase

import (
	"context"
	"errors"
	"strings"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/converter"
	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/domain/repository"
	"neuropharm-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserUsecase interface {
	GetCurrentUser(ctx context.Context, actor *entity.User) *dto.UserResponse
	UpdateCurrentUser(ctx context.Context, actor *entity.User, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	GetMyPatients(ctx context.Context, actor *entity.User) ([]dto.UserResponse, error)
	GetMyDoctors(ctx context.Context, actor *entity.User) ([]dto.UserResponse, error)
	GetAllPatients(ctx context.Context) ([]dto.UserResponse, error)
	CreateDoctor(ctx context.Context, actor *entity.User, req *dto.CreateDoctorRequest) (*dto.UserResponse, error)
	CreateAdmin(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.UserResponse, error)
	SearchUsers(ctx context.Context, query string) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, actor *entity.User, id uuid.UUID) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actor *entity.User, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	upstream     upstream
	userRepo     repository.UserRepository
	registry     service.CareRegistry
	policy       service.AccessPolicy
	auditService service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	userRepo repository.UserRepository,
	registry service.CareRegistry,
	policy service.AccessPolicy,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		upstream:     upstream{timeout: cfg.Upstream.Timeout},
		userRepo:     userRepo,
		registry:     registry,
		policy:       policy,
		auditService: auditService,
	}
}

func (u *userUsecase) GetCurrentUser(ctx context.Context, actor *entity.User) *dto.UserResponse {
	return converter.UserToResponse(actor)
}

func (u *userUsecase) UpdateCurrentUser(ctx context.Context, actor *entity.User, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return u.updateDisplayFields(ctx, actor, actor.ID, req)
}

func (u *userUsecase) GetMyPatients(ctx context.Context, actor *entity.User) ([]dto.UserResponse, error) {
	patients, err := u.registry.PatientsOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return converter.UsersToResponses(patients), nil
}

func (u *userUsecase) GetMyDoctors(ctx context.Context, actor *entity.User) ([]dto.UserResponse, error) {
	doctors, err := u.registry.DoctorsOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return converter.UsersToResponses(doctors), nil
}

func (u *userUsecase) GetAllPatients(ctx context.Context) ([]dto.UserResponse, error) {
	patients, err := u.userRepo.FindByRole(ctx, u.db, entity.RolePatient)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, apperr.Upstream("list patients", err)
	}
	return converter.UsersToResponses(patients), nil
}

func (u *userUsecase) CreateDoctor(ctx context.Context, actor *entity.User, req *dto.CreateDoctorRequest) (*dto.UserResponse, error) {
	return u.createAccount(ctx, &actor.ID, req, entity.RoleDoctor, entity.AuditActionDoctorCreate)
}

// CreateAdmin provisions an admin account from the command line; there is no actor.
func (u *userUsecase) CreateAdmin(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.UserResponse, error) {
	return u.createAccount(ctx, nil, req, entity.RoleAdmin, entity.AuditActionAdminCreate)
}

func (u *userUsecase) createAccount(ctx context.Context, actorID *uuid.UUID, req *dto.CreateDoctorRequest, role entity.Role, action string) (*dto.UserResponse, error) {
	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(req.FullName),
		LastName: strings.TrimSpace(req.LastName),
		Role:     role,
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create %s: %+v", role, err)
		return nil, apperr.Upstream("create "+role.String(), err)
	}

	if err := u.auditService.Record(ctx, tx, actorID, action, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
	}); err != nil {
		return nil, apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperr.Upstream("commit account creation", err)
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) SearchUsers(ctx context.Context, query string) ([]dto.UserResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.New(apperr.ErrValidation, "query is required")
	}

	users, err := u.userRepo.SearchByName(ctx, u.db, query)
	if err != nil {
		u.log.Warnf("Failed to search users: %+v", err)
		return nil, apperr.Upstream("search users", err)
	}
	return converter.UsersToResponses(users), nil
}

func (u *userUsecase) GetUser(ctx context.Context, actor *entity.User, id uuid.UUID) (*dto.UserResponse, error) {
	decision, err := u.policy.CanAccessPatientResource(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	user, err := u.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

// UpdateUser lets an admin or an assigned doctor edit a user's display fields
func (u *userUsecase) UpdateUser(ctx context.Context, actor *entity.User, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	decision, err := u.policy.CanAccessPatientResource(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	target, err := u.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.updateDisplayFields(ctx, actor, target.ID, req)
}

func (u *userUsecase) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperr.Upstream("find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *userUsecase) updateDisplayFields(ctx context.Context, actor *entity.User, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Empty() {
		return nil, ErrNothingToUpdate
	}

	fields := make(map[string]interface{})
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.userRepo.UpdateFields(ctx, tx, id, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, apperr.Upstream("update user", err)
	}

	if err := u.auditService.Record(ctx, tx, &actor.ID, entity.AuditActionProfileUpdate, "user", id.String(), fields); err != nil {
		return nil, apperr.Upstream("record audit log", err)
	}

	updated, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload user: %+v", err)
		return nil, apperr.Upstream("reload user", err)
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperr.Upstream("commit user update", err)
	}

	return converter.UserToResponse(updated), nil
}
