package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.User, error)
	FindByRole(ctx context.Context, db *gorm.DB, role entity.Role) ([]entity.User, error)
	SearchByName(ctx context.Context, db *gorm.DB, query string) ([]entity.User, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hashedPassword string) error
}
