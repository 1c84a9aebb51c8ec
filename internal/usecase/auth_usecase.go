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
	"neuropharm-backend/internal/domain/gateway"
	"neuropharm-backend/internal/domain/repository"
	"neuropharm-backend/internal/service"
	"neuropharm-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// passwordCost is lowered by tests
var passwordCost = bcrypt.DefaultCost

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, actor *entity.User, accessTokenID string, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, actor *entity.User, req *dto.ChangePasswordRequest) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	upstream     upstream
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	tokenStore   gateway.TokenStore
	auditService service.AuditService
	// compared against when the email is unknown so both failure paths cost the same
	dummyHash []byte
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	tokenStore gateway.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), passwordCost)
	if err != nil {
		log.Warnf("Failed to prepare dummy password hash: %+v", err)
	}

	return &authUsecase{
		db:           db,
		log:          log,
		upstream:     upstream{timeout: cfg.Upstream.Timeout},
		userRepo:     userRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
		dummyHash:    dummyHash,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a patient account. Self-service never chooses the role.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
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
		Role:     entity.RolePatient,
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, apperr.Upstream("create user", err)
	}

	if err := u.auditService.Record(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	}); err != nil {
		return nil, apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperr.Upstream("commit registration", err)
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, apperr.Upstream("find user", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(u.dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user.ID, user.Role, converter.UserToResponse(user))
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, role entity.Role, user *dto.UserResponse) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, gateway.TokenKindAccess, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, apperr.Upstream("store access token", err)
	}

	if err := u.tokenStore.Store(ctx, gateway.TokenKindRefresh, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, apperr.Upstream("store refresh token", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:         user,
	}, nil
}

// Logout revokes the access token of the request and, when given, the
// caller's refresh token.
func (u *authUsecase) Logout(ctx context.Context, actor *entity.User, accessTokenID string, req *dto.LogoutRequest) error {
	if err := u.tokenStore.Revoke(ctx, gateway.TokenKindAccess, actor.ID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return apperr.Upstream("revoke access token", err)
	}

	if req == nil || req.RefreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != actor.ID {
		return nil
	}

	if err := u.tokenStore.Revoke(ctx, gateway.TokenKindRefresh, actor.ID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return apperr.Upstream("revoke refresh token", err)
	}

	return nil
}

// RefreshToken rotates a whitelisted refresh token into a new token pair.
// The role is re-read so a changed role takes effect on refresh.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, gateway.TokenKindRefresh, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, apperr.Upstream("check refresh token", err)
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperr.Upstream("find user", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	if err := u.tokenStore.Revoke(ctx, gateway.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, apperr.Upstream("revoke refresh token", err)
	}

	return u.issueTokens(ctx, user.ID, user.Role, converter.UserToResponse(user))
}

// ChangePassword verifies the old password, stores the new hash and revokes
// every token of the user.
func (u *authUsecase) ChangePassword(ctx context.Context, actor *entity.User, req *dto.ChangePasswordRequest) error {
	if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := hashPassword(req.NewPassword)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.userRepo.UpdatePassword(ctx, tx, actor.ID, hashedPassword); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return apperr.Upstream("update password", err)
	}

	if err := u.auditService.Record(ctx, tx, &actor.ID, entity.AuditActionPasswordChange, "user", actor.ID.String(), nil); err != nil {
		return apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperr.Upstream("commit password change", err)
	}

	if err := u.tokenStore.RevokeAll(ctx, actor.ID); err != nil {
		u.log.Warnf("Failed to revoke tokens after password change: %+v", err)
		return apperr.Upstream("revoke tokens", err)
	}

	return nil
}
