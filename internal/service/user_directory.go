package service

import (
	"context"

	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrUserNotFound = apperr.New(apperr.ErrNotFound, "User not found")

// UserDirectory resolves an authenticated subject to its user record.
// Every call reads the store.
type UserDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userDirectory struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
}

func NewUserDirectory(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository) UserDirectory {
	return &userDirectory{
		db:       db,
		log:      log,
		userRepo: userRepo,
	}
}

func (s *userDirectory) Lookup(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, id)
	if err != nil {
		s.log.Warnf("Failed to look up user %s: %+v", id, err)
		return nil, apperr.Upstream("look up user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
